package http

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/thehowl/linediff/pkg/diff"
	"github.com/thehowl/linediff/templates"
)

// maxComputationMs bounds the per-request diff computation; a timed-out
// diff degrades to "everything changed" rather than holding the request.
const maxComputationMs = 5000

func (s *Server) serveDiff(w http.ResponseWriter, r *http.Request) error {
	// parse filename
	id := chi.URLParam(r, "id")
	wantRaw := false
	if strings.HasSuffix(id, ".diff") {
		id = id[:len(id)-len(".diff")]
		wantRaw = true
	} else if !isBrowser(r) {
		wantRaw = true
	}

	files, err := s.getFiles(r.Context(), id)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		w.WriteHeader(404)
		w.Write([]byte("not found"))
		return nil
	}

	qry := r.URL.Query()
	opts := diff.Options{MaxComputationTimeMs: maxComputationMs}
	if qry.Get("w") == "1" {
		opts.IgnoreTrimWhitespace = true
	}
	if qry.Get("sw") == "1" {
		opts.ExtendToSubwords = true
	}
	if t, err := strconv.Atoi(qry.Get("t")); err == nil && t > 0 {
		opts.MaxComputationTimeMs = min(maxComputationMs, t)
	}

	red := documentLines(files[0].Content)
	green := documentLines(files[1].Content)
	d := diff.Compute(red, green, opts)

	if wantRaw {
		w.Header().Set(ctHeader, ctPlain)
		w.Write([]byte(d.Dump()))
		return nil
	}

	plan := diff.BuildRenderPlan(d, red, green)
	return templates.Templates.ExecuteTemplate(w, "file.tmpl", &templates.FileTemplateData{
		ID:         id,
		RedName:    files[0].Name,
		GreenName:  files[1].Name,
		Rows:       renderRows(plan, red, green),
		HitTimeout: plan.HitTimeout,
		Whitespace: opts.IgnoreTrimWhitespace,
		Subwords:   opts.ExtendToSubwords,
		Query:      qry,
	})
}

// documentLines splits file content into the line slice the engine works
// on. A trailing newline does not start a final empty line.
func documentLines(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// renderRows pairs up the two sides of the render plan and cuts each real
// row's line into plain/highlighted segments around its character spans.
func renderRows(plan *diff.RenderPlan, red, green []string) []templates.RowPair {
	rows := make([]templates.RowPair, len(plan.Left))
	for i := range plan.Left {
		rows[i] = templates.RowPair{
			Left:  renderCell(plan.Left[i], red),
			Right: renderCell(plan.Right[i], green),
		}
	}
	return rows
}

func renderCell(row diff.Row, lines []string) templates.Cell {
	c := templates.Cell{Number: row.Line}
	switch row.Kind {
	case diff.RowDelete:
		c.Class = "del"
	case diff.RowInsert:
		c.Class = "ins"
	case diff.RowFiller:
		c.Class = "fill"
		return c
	}
	line := ""
	if row.Line >= 1 && row.Line <= len(lines) {
		line = lines[row.Line-1]
	}
	c.Segments = cutSegments(line, row.Spans)
	return c
}

// cutSegments slices line around the given UTF-16 column spans, marking
// the in-span segments as changed.
func cutSegments(line string, spans []diff.CharSpan) []templates.Segment {
	var segs []templates.Segment
	add := func(text string, changed bool) {
		if text != "" {
			segs = append(segs, templates.Segment{Text: text, Changed: changed})
		}
	}
	last := 0
	for _, sp := range spans {
		start := diff.ColumnToByteOffset(line, sp.StartCol)
		end := diff.ColumnToByteOffset(line, sp.EndCol)
		if start < last {
			continue
		}
		add(line[last:start], false)
		add(line[start:end], true)
		last = end
	}
	add(line[last:], false)
	if segs == nil {
		// keep a segment so empty lines still render a cell body.
		segs = []templates.Segment{{}}
	}
	return segs
}

func (s *Server) getFiles(ctx context.Context, id string) ([]diffFile, error) {
	if id == "example" {
		return exampleFiles, nil
	}

	// determine whether the pair exists
	p, err := s.DB.GetPair(id)
	if err != nil {
		return nil, err
	}
	if p.IsZero() {
		return nil, nil
	}

	// get from storage
	data, err := s.Storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// decode
	files, err := tgzReadFiles(data)
	if err != nil {
		return nil, err
	}
	if len(files) != 2 {
		return nil, fmt.Errorf("expected 2 files got %d", len(files))
	}

	return files, nil
}

var exampleFiles = []diffFile{
	{
		Name: "main.go",
		Content: `package main

import "fmt"

func sayHello(to string) string {
	return "hello " + to + "!"
}

func main() {
	fmt.Println(sayHello("world"))
}
`,
	},
	{
		Name: "server.go",
		Content: `package main

import (
	"fmt"
	"net/http"
	"os"
)

// sayHello greets whoever is passed in as an argument.
func sayHello(to string) string {
	return "hello " + to + "!"
}

func main() {
	if os.Getenv("DEBUG") == "1" {
		fmt.Println(sayHello("world"))
	}
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sayHello("internet")))
	})
	panic(http.ListenAndServe(":8080", nil))
}
`,
	},
}

type diffFile struct {
	Name    string
	Content string
}

func tgzReadFiles(data []byte) ([]diffFile, error) {
	gzrd, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var files []diffFile
	rd := tar.NewReader(gzrd)
	for {
		f, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, err
		}
		files = append(files, diffFile{Name: f.Name, Content: string(data)})
	}

	if err := gzrd.Close(); err != nil {
		return nil, err
	}

	return files, nil
}

func (s *Server) serveFile(n int) func(w http.ResponseWriter, r *http.Request) {
	return s.e(func(w http.ResponseWriter, r *http.Request) error {
		return s._serveFile(w, r, n)
	})
}

func (s *Server) _serveFile(w http.ResponseWriter, r *http.Request, idx int) error {
	// parse filename
	id := chi.URLParam(r, "id")

	files, err := s.getFiles(r.Context(), id)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		w.WriteHeader(404)
		w.Write([]byte("not found"))
		return nil
	}

	fn := files[idx]
	w.Header().Set(ctHeader, ctPlain)
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(fn.Name))
	w.Write([]byte(fn.Content))
	return nil
}
