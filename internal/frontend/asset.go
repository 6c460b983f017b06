package frontend

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

// ErrMissingParam is returned by Render when a placeholder has no argument.
var ErrMissingParam = errors.New("missing template parameter")

const (
	delim        = "##"
	escapedDelim = `\##`
)

// Asset is one compiled-in text resource.
//
// Text may contain ##name## placeholders; a literal "##" is written as \##.
type Asset struct {
	name   string
	path   string
	route  string
	text   string
	parts  []string // even indexes: literal text, odd indexes: parameter names
	params []string
}

// AssetName derives a registry name from a path relative to the asset root:
// "css/index.css" becomes "CSS_INDEX_CSS".
func AssetName(p string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "/", "_", `\`, "_").Replace(p))
}

func newAsset(p, route, text string) (Asset, error) {
	parts, err := splitPlaceholders(text)
	if err != nil {
		return Asset{}, fmt.Errorf("asset %s: %w", p, err)
	}

	var params []string
	seen := make(map[string]bool)
	for i := 1; i < len(parts); i += 2 {
		if !seen[parts[i]] {
			seen[parts[i]] = true
			params = append(params, parts[i])
		}
	}

	return Asset{
		name:   AssetName(p),
		path:   p,
		route:  route,
		text:   text,
		parts:  parts,
		params: params,
	}, nil
}

// splitPlaceholders cuts text at every unescaped "##".
func splitPlaceholders(text string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], escapedDelim):
			cur.WriteString(delim)
			i += len(escapedDelim)
		case strings.HasPrefix(text[i:], delim):
			parts = append(parts, cur.String())
			cur.Reset()
			i += len(delim)
		default:
			cur.WriteByte(text[i])
			i++
		}
	}
	parts = append(parts, cur.String())

	if len(parts)%2 == 0 {
		return nil, fmt.Errorf("unterminated placeholder %q", parts[len(parts)-1])
	}
	for i := 1; i < len(parts); i += 2 {
		if !validParamName(parts[i]) {
			return nil, fmt.Errorf("invalid placeholder name %q", parts[i])
		}
	}
	return parts, nil
}

func validParamName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Name returns the registry name.
func (a Asset) Name() string { return a.name }

// Path returns the path relative to the asset root.
func (a Asset) Path() string { return a.path }

// Route returns the HTTP route the asset is served at.
func (a Asset) Route() string { return a.route }

// Text returns the content as stored.
func (a Asset) Text() string { return a.text }

// Bytes returns a fresh copy of the content.
func (a Asset) Bytes() []byte { return []byte(a.text) }

// ContentType returns the MIME type inferred from the file extension.
func (a Asset) ContentType() string {
	if ct := mime.TypeByExtension(path.Ext(a.path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Params returns the placeholder names in order of first appearance.
func (a Asset) Params() []string {
	return append([]string(nil), a.params...)
}

// Render substitutes every placeholder with its value from args.
// Extra arguments are ignored.
func (a Asset) Render(args map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(a.text))
	for i, part := range a.parts {
		if i%2 == 0 {
			b.WriteString(part)
			continue
		}
		v, ok := args[part]
		if !ok {
			return "", fmt.Errorf("render %s: %w: %s", a.name, ErrMissingParam, part)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}
