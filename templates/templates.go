// Package templates holds the embedded HTML templates of the web
// interface, and the view model the diff pages are rendered from.
package templates

import (
	"embed"
	"html/template"
	"maps"
	"net/url"
)

var (
	Templates = template.Must(
		template.New("").ParseFS(templateFS, "*.tmpl"),
	)
	//go:embed *
	templateFS embed.FS
)

// Segment is a slice of one line's text; changed segments render with
// the character-level highlight.
type Segment struct {
	Text    string
	Changed bool
}

// Cell is one side of a rendered diff row.
type Cell struct {
	// Number is the 1-based source line number; 0 for filler cells.
	Number int
	// Class is the css class of the cell: "", "del", "ins" or "fill".
	Class    string
	Segments []Segment
}

// RowPair is one aligned row of the side-by-side view.
type RowPair struct {
	Left  Cell
	Right Cell
}

// FileTemplateData is the view model of the diff page.
type FileTemplateData struct {
	ID         string
	RedName    string
	GreenName  string
	Rows       []RowPair
	HitTimeout bool
	Whitespace bool
	Subwords   bool
	Query      url.Values
}

// WithQueryValue returns the current query string with key set to value
// (or removed, when value is empty), for the option toggle links.
func (f *FileTemplateData) WithQueryValue(key, value string) string {
	uvCopy := make(url.Values)
	maps.Copy(uvCopy, f.Query)
	if value == "" {
		uvCopy.Del(key)
	} else {
		uvCopy.Set(key, value)
	}
	if len(uvCopy) == 0 {
		return ""
	}
	return "?" + uvCopy.Encode()
}

// ToggleWhitespace is the target of the whitespace option link.
func (f *FileTemplateData) ToggleWhitespace() string {
	if f.Whitespace {
		return "/" + f.ID + f.WithQueryValue("w", "")
	}
	return "/" + f.ID + f.WithQueryValue("w", "1")
}

// ToggleSubwords is the target of the subword option link.
func (f *FileTemplateData) ToggleSubwords() string {
	if f.Subwords {
		return "/" + f.ID + f.WithQueryValue("sw", "")
	}
	return "/" + f.ID + f.WithQueryValue("sw", "1")
}
