package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/DrSkyle/lineblame/pkg/annotate"
	"github.com/DrSkyle/lineblame/pkg/config"
	"github.com/DrSkyle/lineblame/pkg/editor"
	"github.com/DrSkyle/lineblame/pkg/engine"
	"github.com/DrSkyle/lineblame/pkg/report"
	"github.com/spf13/cobra"
)

var (
	lineRanges  []string
	linesFormat string
)

var linesCmd = &cobra.Command{
	Use:   "lines <file>",
	Short: "Print blame for selected lines",
	Long: `Print the commit, author, date and message for selected lines.

Lines are 1-based; pass -l once per line or range. Without -l every line
of the file is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := report.ParseFormat(linesFormat)
		if err != nil {
			return err
		}

		ranges, err := selection(path, lineRanges)
		if err != nil {
			return err
		}

		// Asking for blame explicitly overrides a disabled default.
		s, closeFn, err := newSession(cmd.Context(), cmd.ErrOrStderr(), func(c *config.Config) {
			c.Enabled = true
			c.Watch = false
		})
		if err != nil {
			return err
		}
		defer closeFn()

		ed := editor.NewStaticEditor(editor.FileDocument(path), ranges...)
		host := editor.NewStaticHost(ed)
		s.Start(host)
		res := s.Handle(cmd.Context(), host, engine.Event{Kind: engine.ActiveEditorChanged})

		failed := false
		for _, n := range host.Notices() {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", n.Level, n.Message)
			failed = failed || n.Level == "error"
		}
		if label, _ := host.Label(); label == annotate.LabelNotRepo {
			failed = true
		}
		if failed {
			return fmt.Errorf("no blame available for %s", path)
		}

		return report.Write(cmd.OutOrStdout(), report.FromResult(res), format)
	},
}

func init() {
	linesCmd.Flags().StringArrayVarP(&lineRanges, "line", "l", nil, "Line or range to blame, e.g. 12 or 10-14 (repeatable)")
	linesCmd.Flags().StringVarP(&linesFormat, "format", "f", string(report.FormatText), "Output format: text, json, yaml or csv")
	rootCmd.AddCommand(linesCmd)
}

// selection turns -l values into editor ranges clipped to the file's
// length, defaulting to the whole file.
func selection(path string, args []string) ([]editor.Range, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}

	if len(args) == 0 {
		if n == 0 {
			return nil, nil
		}
		return []editor.Range{editor.LineRange(0, n-1)}, nil
	}

	ranges := make([]editor.Range, 0, len(args))
	for _, arg := range args {
		r, err := editor.ParseLineRange(arg)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return editor.NewSelection(ranges).Clip(n), nil
}
