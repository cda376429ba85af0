// Package registry tracks which pages use which templates so a template
// change can be fanned out into the minimal set of page rebuilds.
//
// Two indexes are kept in lockstep: page→template (one entry per page) and
// template→pages (the exact inverse). A page appears in at most one
// template's set; when a page switches templates it leaves the old set and
// joins the new one under a single lock acquisition, so readers never see an
// intermediate state.
package registry

import (
	"sync"

	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Registry is the bidirectional page/template dependency index. One instance
// is constructed per process run and shared by the build orchestrator and the
// watch loop. The zero value is not usable; call New.
type Registry struct {
	mu            sync.RWMutex
	pageTemplate  map[string]string
	templatePages map[string]sets.Set[string]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		pageTemplate:  make(map[string]string),
		templatePages: make(map[string]sets.Set[string]),
	}
}

// Record registers that pagePath is currently rendered with templatePath.
// Re-recording the same pair is a no-op; recording a different template moves
// the page between template sets atomically. Record never rejects input:
// template fallback resolution happens before the registry is consulted.
func (r *Registry) Record(pagePath, templatePath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.pageTemplate[pagePath]; ok && prev != templatePath {
		if pages, ok := r.templatePages[prev]; ok {
			pages.Delete(pagePath)
		}
	}

	pages, ok := r.templatePages[templatePath]
	if !ok {
		pages = sets.New[string]()
		r.templatePages[templatePath] = pages
	}
	pages.Add(pagePath)
	r.pageTemplate[pagePath] = templatePath
}

// PagesUsing returns the pages currently depending on templatePath, sorted
// for deterministic fan-out. Unknown templates yield an empty slice.
func (r *Registry) PagesUsing(templatePath string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pages, ok := r.templatePages[templatePath]
	if !ok {
		return nil
	}
	return sets.Sorted(pages)
}

// TemplateOf returns the template recorded for pagePath, if any.
func (r *Registry) TemplateOf(pagePath string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.pageTemplate[pagePath]
	return t, ok
}

// Len returns the number of known pages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pageTemplate)
}
