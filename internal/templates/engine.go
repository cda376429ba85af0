// Package templates produces a complete HTML document for one page: it loads
// the page's template, substitutes `{{ key }}` placeholders from front-matter
// metadata, injects the rendered Markdown body into the content element, and
// resolves the document title.
package templates

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// ContentElementID is the id of the content-insertion element templates are
// expected to carry.
const ContentElementID = "page-content"

// titlePlaceholder is the literal placeholder left behind when a template
// declares {{ title }} and the page metadata carries no title.
const titlePlaceholder = "{{ title }}"

// ErrNoHTMLRoot marks a template without a top-level html element. This is a
// structural defect of the template and aborts the whole build.
var ErrNoHTMLRoot = errors.New("template has no html root element")

// Engine renders pages. Templates are read fresh from disk on every render;
// nothing is cached across builds.
type Engine struct{}

// NewEngine returns a template engine.
func NewEngine() *Engine { return &Engine{} }

// RenderPage produces the output HTML for one page.
//
// A missing template file fails only this page (siteerr.KindTemplateNotFound);
// a template without an html root fails the build (siteerr.KindStructural).
// A missing content element is a warning: the substituted template is emitted
// without injected content.
func (e *Engine) RenderPage(meta frontmatter.Metadata, body []byte, templatePath string) (string, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", siteerr.TemplateNotFound(templatePath, err)
		}
		return "", siteerr.PageError(templatePath, err)
	}

	text := Substitute(string(raw), meta)

	if !hasHTMLRoot(text) {
		return "", siteerr.Structural(templatePath, ErrNoHTMLRoot)
	}

	doc, err := ParseDocument(text)
	if err != nil {
		return "", siteerr.Structural(templatePath, err)
	}

	rendered, err := markdown.Render(body)
	if err != nil {
		return "", siteerr.PageError(templatePath, err)
	}

	if content := doc.GetElementByID(ContentElementID); content != nil {
		if err := SetInnerHTML(content, rendered); err != nil {
			return "", siteerr.PageError(templatePath, err)
		}
	} else {
		slog.Warn("template has no content element, emitting page without injected content",
			logfields.Template(templatePath), slog.String("id", ContentElementID))
	}

	resolveTitle(doc, meta)

	out, err := doc.SerializeRoot()
	if err != nil {
		return "", siteerr.Structural(templatePath, err)
	}
	return out, nil
}

// Substitute replaces every literal `{{ key }}` placeholder with the
// corresponding metadata value. Placeholders without a matching key are left
// untouched.
func Substitute(text string, meta frontmatter.Metadata) string {
	for k, v := range meta {
		text = strings.ReplaceAll(text, "{{ "+k+" }}", v)
	}
	return text
}

// resolveTitle applies the title precedence: a real title already present in
// the template wins; then the page's title metadata; then the first h1 of the
// injected content. With no title source the document is left untouched, so a
// leftover {{ title }} placeholder ships verbatim like any other unmatched
// placeholder.
func resolveTitle(doc *Document, meta frontmatter.Metadata) {
	existing := doc.Title()
	if existing != "" && existing != titlePlaceholder {
		return
	}
	if t := meta["title"]; t != "" {
		doc.SetTitle(t)
		return
	}
	if h1 := doc.FirstByTag("h1"); h1 != nil {
		if t := innerText(h1); t != "" {
			doc.SetTitle(t)
		}
	}
}

// hasHTMLRoot scans the raw template text for an html start tag. The check
// runs on the source text because html.Parse synthesizes the html element
// when it is absent.
func hasHTMLRoot(text string) bool {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "html" {
				return true
			}
		}
	}
}
