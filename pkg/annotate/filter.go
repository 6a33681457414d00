package annotate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/google/cel-go/cel"
)

// Filter hides records matching a CEL expression over hash, author, date,
// message and line, e.g. `author == "dependabot[bot]"`.
type Filter struct {
	expr    string
	program cel.Program
	logger  *slog.Logger
}

// NewFilter compiles expr. An empty expression yields a nil Filter, which
// keeps every record.
func NewFilter(expr string, logger *slog.Logger) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	env, err := cel.NewEnv(
		cel.Variable("hash", cel.StringType),
		cel.Variable("author", cel.StringType),
		cel.Variable("date", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("line", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("exclude expression compilation error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("exclude expression program creation error: %w", err)
	}

	return &Filter{expr: expr, program: prg, logger: logger}, nil
}

// Excludes reports whether r matches the expression.
func (f *Filter) Excludes(r blame.Record) bool {
	if f == nil {
		return false
	}
	out, _, err := f.program.Eval(map[string]interface{}{
		"hash":    r.Hash,
		"author":  r.Author,
		"date":    r.Date,
		"message": r.Message,
		"line":    int64(r.Line),
	})
	if err != nil {
		f.logger.Error("Exclude evaluation failed", "expr", f.expr, "line", r.Line, "error", err)
		return false
	}
	match, ok := out.Value().(bool)
	return ok && match
}

// Apply drops excluded records.
func (f *Filter) Apply(records blame.Set) blame.Set {
	if f == nil {
		return records
	}
	var out blame.Set
	for _, r := range records {
		if !f.Excludes(r) {
			out = append(out, r)
		}
	}
	return out
}
