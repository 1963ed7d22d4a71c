package lex

import (
	"bufio"
	"os"
	"time"
)

// runeEOF is the sentinel returned by File.get and Lexer.readc for
// end-of-stream. It is never a valid source byte.
const runeEOF = -1

// File is a single character-stream source, backed either by an open OS
// file handle or by an in-memory string. It canonicalizes CRLF to LF,
// synthesizes a trailing newline at end-of-file, and keeps a small
// pushback ring so the lexer can look ahead and then change its mind.
type File struct {
	name string

	handle *os.File
	reader *bufio.Reader
	mtime  time.Time

	data []byte
	pos  int

	line   int
	column int
	last   rune

	pushback    [3]rune
	pushbackLen int

	tabWidth int

	ntok int
}

func newFileCommon(name string) *File {
	return &File{name: name, line: 1, column: 1, last: runeEOF, tabWidth: 1}
}

// NewFile wraps an already-open OS file handle as a character stream.
// name is used in diagnostics and need not match handle's path (e.g. "-"
// for stdin).
func NewFile(handle *os.File, name string) (*File, error) {
	f := newFileCommon(name)
	f.handle = handle
	f.reader = bufio.NewReader(handle)
	if name != "-" {
		info, err := handle.Stat()
		if err != nil {
			return nil, err
		}
		f.mtime = info.ModTime()
	}
	return f, nil
}

// NewFileString creates a string-backed character stream, used to lex
// standalone text such as a `-D name=value` command-line definition.
func NewFileString(s string) *File {
	f := newFileCommon("<string>")
	f.data = []byte(s)
	return f
}

// Name returns the stream's diagnostic name.
func (f *File) Name() string { return f.name }

// Line returns the current 1-based line number.
func (f *File) Line() int { return f.line }

// Column returns the current 1-based column number.
func (f *File) Column() int { return f.column }

// ModTime returns the file's last-modified time. Only meaningful for
// file-backed streams; zero for string-backed ones. The lexer itself
// never reads this — it exists for an external driver's caching use.
func (f *File) ModTime() time.Time { return f.mtime }

// SetTabWidth configures how many columns a tab character advances. The
// default is 1, matching a naive per-byte column count; a driver that
// wants tabs to align to a wider stop calls this after the stream is
// created but before any character is read.
func (f *File) SetTabWidth(n int) {
	if n > 0 {
		f.tabWidth = n
	}
}

func (f *File) close() {
	if f.handle != nil {
		f.handle.Close()
	}
}

// readRaw reads one canonicalized character from the underlying source,
// without consulting the pushback buffer. CR and CRLF both become LF; at
// end-of-file a synthetic trailing newline is produced exactly once if the
// source didn't already end in one.
func (f *File) readRaw() rune {
	var c rune
	if f.handle != nil {
		b, err := f.reader.ReadByte()
		if err != nil {
			c = f.syntheticEOF()
		} else if b == '\r' {
			if b2, err2 := f.reader.ReadByte(); err2 == nil && b2 != '\n' {
				f.reader.UnreadByte()
			}
			c = '\n'
		} else {
			c = rune(b)
		}
	} else {
		if f.pos >= len(f.data) {
			c = f.syntheticEOF()
		} else if f.data[f.pos] == '\r' {
			f.pos++
			if f.pos < len(f.data) && f.data[f.pos] == '\n' {
				f.pos++
			}
			c = '\n'
		} else {
			c = rune(f.data[f.pos])
			f.pos++
		}
	}
	f.last = c
	return c
}

func (f *File) syntheticEOF() rune {
	if f.last == '\n' || f.last == runeEOF {
		return runeEOF
	}
	return '\n'
}

// get returns the next canonicalized character, preferring the pushback
// buffer, and advances line/column bookkeeping.
func (f *File) get() rune {
	var c rune
	if f.pushbackLen > 0 {
		f.pushbackLen--
		c = f.pushback[f.pushbackLen]
	} else {
		c = f.readRaw()
	}
	switch {
	case c == '\n':
		f.line++
		f.column = 1
	case c == '\t':
		f.column += f.tabWidth
	case c != runeEOF:
		f.column++
	}
	return c
}

// unget pushes c back so the next get returns it again. Panics if the
// fixed-size pushback buffer is exhausted — callers never legitimately
// push back more than two or three characters in a row (digraph and
// escape lookahead).
func (f *File) unget(c rune) {
	if c == runeEOF {
		return
	}
	if f.pushbackLen >= len(f.pushback) {
		panic("lex: pushback buffer exhausted")
	}
	f.pushback[f.pushbackLen] = c
	f.pushbackLen++
	switch {
	case c == '\n':
		f.line--
		f.column = 1
	case c == '\t':
		f.column -= f.tabWidth
	default:
		f.column--
	}
}
