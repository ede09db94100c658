package docgen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReferenceTitle is the heading of the technical reference document.
const ReferenceTitle = "Technical Reference Manual"

var titleCaser = cases.Title(language.Und)

// ContextEntry renders the digest line for one file used as README context.
func ContextEntry(path string, a FileAnalysis) string {
	return fmt.Sprintf("File: %s\nSummary: %s\nDependencies: %s",
		path, a.Summary, strings.Join(a.Dependencies, ", "))
}

// Digest joins context entries into the aggregate README input.
func Digest(entries []string) string {
	return strings.Join(entries, "\n\n")
}

// RenderPage renders the technical reference page for one file.
func RenderPage(path string, a FileAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Module: `%s`\n\n", path)
	fmt.Fprintf(&b, "**Summary:** %s\n\n", a.Summary)

	if len(a.Dependencies) > 0 {
		fmt.Fprintf(&b, "**Dependencies:** `%s`\n\n", strings.Join(a.Dependencies, ", "))
	}

	if len(a.Elements) > 0 {
		b.WriteString("### Classes & Functions\n")
		for _, el := range a.Elements {
			fmt.Fprintf(&b, "- **%s `%s`**\n", titleCaser.String(el.Kind), el.Name)
			fmt.Fprintf(&b, "  - *Description:* %s\n", el.Description)
			if len(el.Inputs) > 0 {
				fmt.Fprintf(&b, "  - *Inputs:* [%s]\n", strings.Join(el.Inputs, ", "))
			}
			fmt.Fprintf(&b, "  - *Returns:* `%s`\n", el.Outputs)
		}
	}

	if a.TechnicalNotes != "" {
		fmt.Fprintf(&b, "\n> **Technical notes:** %s\n", a.TechnicalNotes)
	}

	b.WriteString("\n---\n")
	return b.String()
}

// ReferenceDocument joins pages under the reference heading.
func ReferenceDocument(pages []string) string {
	return "# " + ReferenceTitle + "\n\n" + strings.Join(pages, "\n")
}

// ErrorReadme is the README written when generation fails.
func ErrorReadme(err error) string {
	return fmt.Sprintf("# Error Generating README\n\n%v", err)
}
