package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_NewPage(t *testing.T) {
	r := New()
	r.Record("pages/index.md", "templates/homepage.html")

	require.Equal(t, []string{"pages/index.md"}, r.PagesUsing("templates/homepage.html"))
	tmpl, ok := r.TemplateOf("pages/index.md")
	require.True(t, ok)
	require.Equal(t, "templates/homepage.html", tmpl)
}

func TestRecord_Idempotent(t *testing.T) {
	r := New()
	r.Record("pages/a.md", "templates/default.html")
	r.Record("pages/a.md", "templates/default.html")

	require.Equal(t, []string{"pages/a.md"}, r.PagesUsing("templates/default.html"))
	require.Equal(t, 1, r.Len())
}

func TestRecord_TemplateSwitch_MovesBetweenSets(t *testing.T) {
	r := New()
	r.Record("pages/a.md", "templates/default.html")
	r.Record("pages/a.md", "templates/homepage.html")

	require.Empty(t, r.PagesUsing("templates/default.html"))
	require.Equal(t, []string{"pages/a.md"}, r.PagesUsing("templates/homepage.html"))
}

func TestRecord_PageInAtMostOneSet(t *testing.T) {
	r := New()
	templates := []string{"templates/a.html", "templates/b.html", "templates/c.html"}
	for i := 0; i < 30; i++ {
		r.Record("pages/p.md", templates[i%len(templates)])
	}

	found := 0
	for _, tmpl := range templates {
		for _, p := range r.PagesUsing(tmpl) {
			if p == "pages/p.md" {
				found++
			}
		}
	}
	require.Equal(t, 1, found)
}

func TestPagesUsing_UnknownTemplateIsEmpty(t *testing.T) {
	r := New()
	require.Empty(t, r.PagesUsing("templates/missing.html"))
}

func TestPagesUsing_SortedAndCopied(t *testing.T) {
	r := New()
	r.Record("pages/z.md", "templates/default.html")
	r.Record("pages/a.md", "templates/default.html")

	got := r.PagesUsing("templates/default.html")
	require.Equal(t, []string{"pages/a.md", "pages/z.md"}, got)

	// Mutating the returned slice must not affect the index.
	got[0] = "pages/mutated.md"
	require.Equal(t, []string{"pages/a.md", "pages/z.md"}, r.PagesUsing("templates/default.html"))
}

func TestRecord_ConcurrentRegistrationsKeepExclusivity(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	// Many goroutines flip the same pages between two templates while new
	// pages register, mimicking a parallel full build plus watch churn.
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				page := fmt.Sprintf("pages/p%d.md", i%10)
				tmpl := "templates/a.html"
				if (g+i)%2 == 0 {
					tmpl = "templates/b.html"
				}
				r.Record(page, tmpl)
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 10, r.Len())
	seen := map[string]int{}
	for _, tmpl := range []string{"templates/a.html", "templates/b.html"} {
		for _, p := range r.PagesUsing(tmpl) {
			seen[p]++
			rec, ok := r.TemplateOf(p)
			require.True(t, ok)
			require.Equal(t, tmpl, rec)
		}
	}
	require.Len(t, seen, 10)
	for p, n := range seen {
		require.Equalf(t, 1, n, "page %s appears in %d template sets", p, n)
	}
}
