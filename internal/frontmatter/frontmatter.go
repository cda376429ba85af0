package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata holds the parsed front-matter of a page. Keys are arbitrary;
// values are flattened to strings so they can feed placeholder substitution
// directly.
type Metadata map[string]string

// TemplateKey is the reserved metadata key selecting the page's template.
const TemplateKey = "template"

// Template returns the template name declared in the metadata, or "" when the
// page relies on the default template.
func (m Metadata) Template() string { return m[TemplateKey] }

// ErrMissingClosingDelimiter indicates the page started with a front-matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited YAML front-matter from the Markdown body.
//
// If the page does not start with a delimiter line, the whole input is body
// and had is false.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		// Empty front-matter block.
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter as the very last line, with no trailing
		// newline, still closes the block (hand-edited pages often end
		// without one). The body is then empty.
		closeEOF := []byte(nl + "---")
		if bytes.HasSuffix(content, closeEOF) && len(content)-len(closeEOF) >= start {
			end := len(content) - len("---")
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// Parse splits a page into metadata and Markdown body. Scalar YAML values are
// flattened to their string form; a page without front-matter yields empty
// metadata and the full input as body.
func Parse(content []byte) (Metadata, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	meta := Metadata{}
	if !had || len(raw) == 0 {
		return meta, body, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	for k, v := range fields {
		meta[k] = flatten(v)
	}
	return meta, body, nil
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
