package docgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Render.
const (
	FormatRawMarkdown = "raw-md"
	FormatHugo        = "hugo"
	FormatDocusaurus  = "docusaurus"
)

// RendererConfig controls how the site renderer writes output files.
type RendererConfig struct {
	Format    string // "raw-md", "hugo", or "docusaurus"
	OutputDir string // root output directory
	SiteTitle string // used by hugo and docusaurus site config
}

// Render writes documents under cfg.OutputDir, creating it if needed, and
// returns the written paths in order. Existing files are overwritten.
func Render(documents []Document, cfg RendererConfig) ([]string, error) {
	switch cfg.Format {
	case "", FormatRawMarkdown:
		return renderRawMarkdown(documents, cfg)
	case FormatHugo:
		return renderHugo(documents, cfg)
	case FormatDocusaurus:
		return renderDocusaurus(documents, cfg)
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported render format: %s", cfg.Format),
			"use raw-md, hugo or docusaurus",
		)
	}
}

// renderRawMarkdown writes each document as-is under OutputDir.
func renderRawMarkdown(documents []Document, cfg RendererConfig) ([]string, error) {
	var written []string
	for _, doc := range documents {
		path := filepath.Join(cfg.OutputDir, doc.Path)
		if err := writeDoc(path, doc.Content); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

type hugoFrontMatter struct {
	Title  string `yaml:"title"`
	Weight int    `yaml:"weight"`
}

type hugoSiteConfig struct {
	BaseURL      string `toml:"baseURL"`
	LanguageCode string `toml:"languageCode"`
	Title        string `toml:"title"`
	Theme        string `toml:"theme"`
}

// renderHugo writes documents with YAML front matter under OutputDir/content/
// and generates a config.toml at OutputDir/config.toml.
func renderHugo(documents []Document, cfg RendererConfig) ([]string, error) {
	var written []string
	for i, doc := range documents {
		fm, err := frontMatter(hugoFrontMatter{Title: doc.Title, Weight: i + 1})
		if err != nil {
			return written, err
		}
		path := filepath.Join(cfg.OutputDir, "content", doc.Path)
		if err := writeDoc(path, fm+doc.Content); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	var buf bytes.Buffer
	site := hugoSiteConfig{
		BaseURL:      "/",
		LanguageCode: "en-us",
		Title:        siteTitle(cfg),
		Theme:        "hugo-book",
	}
	if err := toml.NewEncoder(&buf).Encode(site); err != nil {
		return written, errors.Wrap(err, "encoding hugo config")
	}
	configPath := filepath.Join(cfg.OutputDir, "config.toml")
	if err := writeDoc(configPath, buf.String()); err != nil {
		return written, err
	}
	return append(written, configPath), nil
}

type docusaurusFrontMatter struct {
	SidebarPosition int    `yaml:"sidebar_position"`
	SidebarLabel    string `yaml:"sidebar_label"`
}

const docusaurusConfigTmpl = `// @ts-check

/** @type {import('@docusaurus/types').Config} */
const config = {
  title: %s,
  url: 'https://your-project-url.example.com',
  baseUrl: '/',
  presets: [
    [
      'classic',
      /** @type {import('@docusaurus/preset-classic').Options} */
      ({
        docs: {
          routeBasePath: '/',
        },
      }),
    ],
  ],
};

module.exports = config;
`

// renderDocusaurus writes documents with YAML front matter under OutputDir/docs/
// and generates a docusaurus.config.js at OutputDir/docusaurus.config.js.
func renderDocusaurus(documents []Document, cfg RendererConfig) ([]string, error) {
	var written []string
	for i, doc := range documents {
		fm, err := frontMatter(docusaurusFrontMatter{SidebarPosition: i + 1, SidebarLabel: doc.Title})
		if err != nil {
			return written, err
		}
		path := filepath.Join(cfg.OutputDir, "docs", doc.Path)
		if err := writeDoc(path, fm+doc.Content); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	configPath := filepath.Join(cfg.OutputDir, "docusaurus.config.js")
	content := strings.Replace(docusaurusConfigTmpl, "%s", jsString(siteTitle(cfg)), 1)
	if err := writeDoc(configPath, content); err != nil {
		return written, err
	}
	return append(written, configPath), nil
}

func frontMatter(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encoding front matter")
	}
	return "---\n" + string(data) + "---\n\n", nil
}

func siteTitle(cfg RendererConfig) string {
	if cfg.SiteTitle != "" {
		return cfg.SiteTitle
	}
	return "Project Documentation"
}

// jsString quotes s as a single-quoted JavaScript string literal.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// writeDoc creates parent directories and writes content to the given path.
func writeDoc(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
