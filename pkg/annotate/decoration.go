package annotate

import (
	"fmt"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/DrSkyle/lineblame/pkg/editor"
)

// InlineText is the trailing annotation for a record.
func InlineText(r blame.Record) string {
	return fmt.Sprintf("%s • %s", r.Author, r.Date)
}

// HoverFor builds the hover card for a record.
func HoverFor(r blame.Record) editor.Hover {
	return editor.Hover{Fields: []editor.HoverField{
		{Label: "Commit", Value: r.Hash},
		{Label: "Author", Value: r.Author},
		{Label: "Date", Value: r.Date},
		{Label: "Message", Value: r.Message},
	}}
}

// Build returns one decoration per record, anchored to its line.
func Build(records blame.Set) []editor.Decoration {
	out := make([]editor.Decoration, 0, len(records))
	for _, r := range records {
		out = append(out, editor.Decoration{
			Line:   r.Line - 1,
			Inline: InlineText(r),
			Hover:  HoverFor(r),
		})
	}
	return out
}

// Select keeps the records whose line is in the selection.
func Select(set blame.Set, sel editor.Selection) blame.Set {
	var out blame.Set
	for _, r := range set {
		if sel.Has(r.Line - 1) {
			out = append(out, r)
		}
	}
	return out
}
