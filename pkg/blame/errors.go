package blame

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch produced no data.
type Kind int

const (
	KindUnknown Kind = iota
	KindFileMissing
	KindToolNotInstalled
	KindNotARepository
	KindQueryFailed
)

var (
	ErrFileMissing      = errors.New("file does not exist")
	ErrToolNotInstalled = errors.New("git is not installed")
	ErrNotARepository   = errors.New("not a git repository")
	ErrQueryFailed      = errors.New("git blame failed")
)

func (k Kind) String() string {
	switch k {
	case KindFileMissing:
		return "FileMissing"
	case KindToolNotInstalled:
		return "ToolNotInstalled"
	case KindNotARepository:
		return "NotARepository"
	case KindQueryFailed:
		return "QueryFailed"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindFileMissing:
		return ErrFileMissing
	case KindToolNotInstalled:
		return ErrToolNotInstalled
	case KindNotARepository:
		return ErrNotARepository
	default:
		return ErrQueryFailed
	}
}

// FetchError is returned by Fetcher.Fetch. errors.Is matches the sentinel
// for its Kind as well as the underlying cause.
type FetchError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind.sentinel(), e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind.sentinel(), e.Path, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Detail is the raw message of the underlying cause, usually git's stderr.
func (e *FetchError) Detail() string {
	if e.Err == nil {
		return ""
	}
	var cmdErr *CommandError
	if errors.As(e.Err, &cmdErr) {
		return cmdErr.Message()
	}
	return e.Err.Error()
}

// KindOf extracts the Kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// CommandError describes a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %v: %s", e.Args, e.Message())
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Message prefers git's own stderr over the process exit status.
func (e *CommandError) Message() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}
