package docgen

import (
	"bytes"
	"text/template"

	"github.com/cockroachdb/errors"
)

// ---------- prompt templates ----------

const analysisSystemPrompt = `You are a Senior Software Architect and Code Analyst.
Your goal is to extract technical details from source code with high accuracy.
You must output strictly valid JSON matching the requested schema.`

var analysisUserTmpl = template.Must(template.New("analysis").Parse(
	`Analyze the following source code file: '{{.Filename}}'.
Extract the architecture, dependencies, and logic flow.

Key Requirements:
1. Identify the TYPE of element (class, function, variable).
2. Summarize the purpose of the file in 1-2 sentences.
3. List external dependencies (imports).
4. Note any technical debt or complex algorithms in 'technical_notes'.

CODE CONTENT:
{{.Content}}
`))

const readmeSystemPrompt = `You are an expert Technical Writer.
You are writing documentation for a GitHub repository.
Your writing style is professional, clear, and concise.
Do not mention that you are an AI. Write as if you are the lead developer.`

var readmeUserTmpl = template.Must(template.New("readme").Parse(
	`Here is the technical summary of the entire project, broken down by file.
Based on this data, write a comprehensive ` + "`README.md`" + ` file.

The README must include:
1. **Project Title & Description**: Infer what the project does from the summaries.
2. **Key Features**: Bullet points of main capabilities.
3. **Architecture Overview**: How the files relate to each other.
4. **Installation/Usage**: Standard installation and usage instructions for the project's language.

PROJECT DATA:
{{.Summary}}
`))

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "rendering %s prompt", tmpl.Name())
	}
	return buf.String(), nil
}
