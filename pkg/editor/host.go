// Package editor describes the host editor surface the annotator talks to.
package editor

import (
	"fmt"
	"strings"
)

// SchemeFile marks documents backed by a file on disk.
const SchemeFile = "file"

// Position is a 0-based line/character location.
type Position struct {
	Line      int
	Character int
}

// Range is a selection between two positions. Start may come after End
// when the user selected upwards.
type Range struct {
	Start Position
	End   Position
}

// LineRange builds a range covering 0-based lines start..end.
func LineRange(start, end int) Range {
	return Range{Start: Position{Line: start}, End: Position{Line: end}}
}

// Document is the file shown in an editor.
type Document struct {
	Path     string
	Scheme   string
	Untitled bool // never saved to disk
}

// FileDocument returns a saved document for path.
func FileDocument(path string) Document {
	return Document{Path: path, Scheme: SchemeFile}
}

// Backed reports whether the document has a saved file behind it.
func (d Document) Backed() bool {
	return !d.Untitled && d.Scheme == SchemeFile && d.Path != ""
}

// HoverField is one labelled value in a hover card.
type HoverField struct {
	Label string
	Value string
}

// Hover is the rich content shown when pointing at a decorated line.
type Hover struct {
	Fields []HoverField
}

// Text renders the hover as aligned "Label: value" lines.
func (h Hover) Text() string {
	width := 0
	for _, f := range h.Fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	var b strings.Builder
	for _, f := range h.Fields {
		fmt.Fprintf(&b, "%-*s  %s\n", width+1, f.Label+":", f.Value)
	}
	return b.String()
}

// Decoration is a line-anchored annotation.
type Decoration struct {
	Line   int // 0-based
	Inline string
	Hover  Hover
}

// Editor is one open text editor.
type Editor interface {
	Document() Document
	Selections() []Range
	// SetDecorations replaces every decoration previously applied.
	SetDecorations(decorations []Decoration)
}

// StatusIndicator is the status bar item owned by the annotator.
type StatusIndicator interface {
	SetStatus(label, tooltip string)
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Error(message string)
	Warning(message string)
}

// Host exposes the active editor and the shared UI surfaces.
type Host interface {
	ActiveEditor() (Editor, bool)
	Status() StatusIndicator
	Notifier() Notifier
}
