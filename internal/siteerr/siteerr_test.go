package siteerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsStructural(t *testing.T) {
	err := Structural("templates/default.html", errors.New("no html element"))
	require.True(t, IsStructural(err))
	require.True(t, IsStructural(fmt.Errorf("process page: %w", err)))

	require.False(t, IsStructural(TemplateNotFound("templates/x.html", fs.ErrNotExist)))
	require.False(t, IsStructural(errors.New("plain")))
	require.False(t, IsStructural(nil))
}

func TestError_UnwrapPreservesCause(t *testing.T) {
	err := TemplateNotFound("templates/missing.html", fs.ErrNotExist)
	require.True(t, errors.Is(err, fs.ErrNotExist))
	require.Contains(t, err.Error(), "template-not-found")
	require.Contains(t, err.Error(), "templates/missing.html")
}

func TestBestEffort_SwallowsFailure(t *testing.T) {
	require.NotPanics(t, func() {
		BestEffort("copy static", func() error { return errors.New("missing source") })
	})
}
