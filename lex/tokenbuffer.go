package lex

import "github.com/oscarcs/cc11/container"

// streamStack is a stack of character-stream sources; the top is the
// stream currently being read from. Implemented over container.Sequence
// per the component's own growth rules.
type streamStack struct {
	seq *container.Sequence
}

func newStreamStack() *streamStack {
	return &streamStack{seq: container.NewSequence()}
}

func (s *streamStack) push(f *File) { s.seq.Push(f) }
func (s *streamStack) pop() *File   { return s.seq.Pop().(*File) }
func (s *streamStack) top() *File   { return s.seq.Tail().(*File) }
func (s *streamStack) depth() int   { return s.seq.Len() }
func (s *streamStack) at(i int) *File {
	return s.seq.Get(i).(*File)
}

// StreamPush pushes a new active stream, e.g. to enter an #include file.
// Reads resume from the top of the stack; when it hits end-of-file the
// stream beneath it resumes automatically.
func (l *Lexer) StreamPush(f *File) {
	f.SetTabWidth(l.tabWidth)
	l.streams.push(f)
}

// CurrentFile returns the stream currently being read from, or nil if no
// stream has been pushed yet.
func (l *Lexer) CurrentFile() *File {
	if l.streams.depth() == 0 {
		return nil
	}
	return l.streams.top()
}

// BaseFile returns the outermost (first-pushed) stream.
func (l *Lexer) BaseFile() *File {
	if l.streams.depth() == 0 {
		return nil
	}
	return l.streams.at(0)
}

// StreamDepth reports how many streams are currently stacked.
func (l *Lexer) StreamDepth() int {
	return l.streams.depth()
}

// StreamPositionAt returns the current position of the stream at depth i
// (0 is the outermost stream), for diagnostics that want to render the
// whole include stack rather than just the top.
func (l *Lexer) StreamPositionAt(i int) Position {
	f := l.streams.at(i)
	return Position{File: f.name, Line: f.line, Column: f.column}
}

// InputPosition renders the current stream's position as "name:line:col",
// for use in diagnostics that don't have a captured Position handy.
func (l *Lexer) InputPosition() string {
	f := l.CurrentFile()
	if f == nil {
		return "(unknown)"
	}
	return Position{File: f.name, Line: f.line, Column: f.column}.String()
}

// StreamStash swaps out the entire active stream stack for a lone new
// stream, saving the old stack to be restored by StreamUnstash. Used to
// lex a standalone string (e.g. a `-D` definition) in isolation from
// whatever file is currently open.
func (l *Lexer) StreamStash(f *File) {
	f.SetTabWidth(l.tabWidth)
	l.stashedStreams = append(l.stashedStreams, l.streams)
	ns := newStreamStack()
	ns.push(f)
	l.streams = ns
}

// StreamUnstash restores the stream stack saved by the most recent
// StreamStash call.
func (l *Lexer) StreamUnstash() {
	n := len(l.stashedStreams) - 1
	l.streams = l.stashedStreams[n]
	l.stashedStreams = l.stashedStreams[:n]
}

// UngetToken pushes a token back onto the active buffer level so the next
// Lex call returns it again. EOF tokens are never buffered, since a
// caller that ungets one and later calls Lex again should see a fresh EOF
// derived from the current stream state, not a stale copy.
func (l *Lexer) UngetToken(t *Token) {
	if t.Kind == EOF {
		return
	}
	l.activeBuffer().Push(t)
}

// TokenBufferStash pushes a new, isolated token-buffer level, backed by
// list. Tokens ungotten while this level is active land in list, and
// reads see only list until TokenBufferUnstash. Used by a macro expander
// to replay an expansion's token list without interference from whatever
// was ungotten at the outer level.
func (l *Lexer) TokenBufferStash(list *container.Sequence) {
	l.buffers.Push(list)
}

// TokenBufferUnstash pops the most recently stashed buffer level.
func (l *Lexer) TokenBufferUnstash() {
	l.buffers.Pop()
}

func (l *Lexer) activeBuffer() *container.Sequence {
	return l.buffers.Tail().(*container.Sequence)
}

func (l *Lexer) bufferEmpty() bool {
	return l.buffers.Len() == 1 && l.activeBuffer().Len() == 0
}
