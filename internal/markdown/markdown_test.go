package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Heading(t *testing.T) {
	out, err := Render([]byte("# Hello\n"))
	require.NoError(t, err)
	require.Contains(t, out, "Hello")
	require.Contains(t, out, "<h1")
}

func TestRender_GFMTable(t *testing.T) {
	out, err := Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
}

func TestRender_Deterministic(t *testing.T) {
	body := []byte("# Title\n\nSome *text* with a [link](/about).\n")
	first, err := Render(body)
	require.NoError(t, err)
	second, err := Render(body)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRender_Empty(t *testing.T) {
	out, err := Render(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
