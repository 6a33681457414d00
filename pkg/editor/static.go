package editor

import "sync"

// StaticEditor is a headless editor with a fixed document and selection.
// It records every decoration set it is given.
type StaticEditor struct {
	mu          sync.Mutex
	doc         Document
	selections  []Range
	decorations []Decoration
	applied     int
}

func NewStaticEditor(doc Document, selections ...Range) *StaticEditor {
	return &StaticEditor{doc: doc, selections: selections}
}

func (e *StaticEditor) Document() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *StaticEditor) Selections() []Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Range(nil), e.selections...)
}

// Select replaces the current selection.
func (e *StaticEditor) Select(ranges ...Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selections = ranges
}

func (e *StaticEditor) SetDecorations(decorations []Decoration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decorations = append([]Decoration(nil), decorations...)
	e.applied++
}

// Decorations returns the last applied set.
func (e *StaticEditor) Decorations() []Decoration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Decoration(nil), e.decorations...)
}

// Applied counts SetDecorations calls.
func (e *StaticEditor) Applied() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applied
}

// Notice is a message sent through a Notifier.
type Notice struct {
	Level   string
	Message string
}

// StaticHost is a headless Host around at most one StaticEditor.
type StaticHost struct {
	mu      sync.Mutex
	editor  *StaticEditor
	label   string
	tooltip string
	notices []Notice
}

func NewStaticHost(ed *StaticEditor) *StaticHost {
	return &StaticHost{editor: ed}
}

func (h *StaticHost) ActiveEditor() (Editor, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.editor == nil {
		return nil, false
	}
	return h.editor, true
}

// Focus switches the active editor; nil means none.
func (h *StaticHost) Focus(ed *StaticEditor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.editor = ed
}

func (h *StaticHost) Status() StatusIndicator { return h }

func (h *StaticHost) Notifier() Notifier { return h }

func (h *StaticHost) SetStatus(label, tooltip string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.label, h.tooltip = label, tooltip
}

// Label returns the current status label and tooltip.
func (h *StaticHost) Label() (string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.label, h.tooltip
}

func (h *StaticHost) Error(message string) { h.notify("error", message) }

func (h *StaticHost) Warning(message string) { h.notify("warning", message) }

func (h *StaticHost) notify(level, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, Notice{Level: level, Message: message})
}

// Notices returns every message sent so far.
func (h *StaticHost) Notices() []Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notice(nil), h.notices...)
}
