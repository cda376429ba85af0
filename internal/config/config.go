// Package config fixes the site layout. The directory names are conventions
// relative to the working directory; the environment can relocate them
// (SITEGEN_PAGES, SITEGEN_TEMPLATES, SITEGEN_STATIC, SITEGEN_OUTPUT),
// typically through a .env file loaded at startup.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Site holds the resolved directory layout for one run.
type Site struct {
	PagesDir     string
	TemplatesDir string
	StaticDir    string
	OutputDir    string
}

// DefaultTemplate is the template used by pages without a template key.
const DefaultTemplate = "default"

// Default returns the conventional layout.
func Default() Site {
	return Site{
		PagesDir:     "pages",
		TemplatesDir: "templates",
		StaticDir:    "static",
		OutputDir:    "public",
	}
}

// FromEnv returns the conventional layout with environment overrides applied.
func FromEnv() Site {
	s := Default()
	if v := os.Getenv("SITEGEN_PAGES"); v != "" {
		s.PagesDir = v
	}
	if v := os.Getenv("SITEGEN_TEMPLATES"); v != "" {
		s.TemplatesDir = v
	}
	if v := os.Getenv("SITEGEN_STATIC"); v != "" {
		s.StaticDir = v
	}
	if v := os.Getenv("SITEGEN_OUTPUT"); v != "" {
		s.OutputDir = v
	}
	return s
}

// TemplatePath resolves a template name from page metadata to its file path.
// An empty name selects the default template.
func (s Site) TemplatePath(name string) string {
	if name == "" {
		name = DefaultTemplate
	}
	return filepath.Join(s.TemplatesDir, name+".html")
}

// OutputPath derives the output file for a page path: the pages-root prefix
// is stripped, the Markdown extension dropped, and .html appended, mirroring
// the page's directory structure under the output root.
func (s Site) OutputPath(pagePath string) string {
	rel, err := filepath.Rel(s.PagesDir, pagePath)
	if err != nil {
		rel = pagePath
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(s.OutputDir, rel)
}

// MirrorPath derives the output location for a passthrough asset under root.
func (s Site) MirrorPath(root, assetPath string) string {
	rel, err := filepath.Rel(root, assetPath)
	if err != nil {
		rel = assetPath
	}
	return filepath.Join(s.OutputDir, rel)
}

// Hidden reports whether the path's basename is dot-prefixed. Hidden files
// are excluded from every copy operation.
func Hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// IsHTML reports whether path has an HTML extension.
func IsHTML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".html")
}
