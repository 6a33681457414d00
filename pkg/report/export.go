// Package report renders annotated lines for the command line.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DrSkyle/lineblame/pkg/annotate"
	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or csv)", s)
}

// Item is one annotated line.
type Item struct {
	Line    int    `json:"line" yaml:"line"`
	Hash    string `json:"hash" yaml:"hash"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Message string `json:"message" yaml:"message"`
	Inline  string `json:"inline" yaml:"inline"`
}

// Report is the export of one reconcile pass.
type Report struct {
	Path  string `json:"path" yaml:"path"`
	Lines int    `json:"lines" yaml:"lines"`
	Items []Item `json:"items" yaml:"items"`
}

// FromResult converts a reconcile outcome into a Report.
func FromResult(res annotate.Result) Report {
	r := Report{
		Path:  res.Path,
		Lines: res.Lines,
		Items: make([]Item, 0, len(res.Records)),
	}
	for _, rec := range res.Records {
		r.Items = append(r.Items, itemFor(rec))
	}
	return r
}

func itemFor(rec blame.Record) Item {
	return Item{
		Line:    rec.Line,
		Hash:    rec.Hash,
		Author:  rec.Author,
		Date:    rec.Date,
		Message: rec.Message,
		Inline:  annotate.InlineText(rec),
	}
}

// Write encodes r to w in format f.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// writeText prints an aligned table. Styling degrades to plain text when w
// is not a terminal.
func writeText(w io.Writer, r Report) error {
	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true)
	hash := renderer.NewStyle().Foreground(lipgloss.Color("#874BFD"))
	dim := renderer.NewStyle().Faint(true)

	if _, err := fmt.Fprintln(w, header.Render(r.Path)); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		_, err := fmt.Fprintln(w, dim.Render("  no annotations"))
		return err
	}

	authorWidth := 0
	for _, it := range r.Items {
		authorWidth = max(authorWidth, lipgloss.Width(it.Author))
	}
	author := renderer.NewStyle().Width(authorWidth)

	for _, it := range r.Items {
		date := it.Date
		if date == "" {
			date = "-"
		}
		short := blame.Record{Hash: it.Hash}.ShortHash()
		_, err := fmt.Fprintf(w, "%4d  %s  %s  %-10s  %s\n",
			it.Line, hash.Render(short), author.Render(it.Author), date, it.Message)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Line", "Hash", "Author", "Date", "Message"}); err != nil {
		return err
	}
	for _, it := range r.Items {
		record := []string{
			strconv.Itoa(it.Line),
			it.Hash,
			it.Author,
			it.Date,
			it.Message,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
