// Package lex implements the pp-token lexer: a three-layer input pipeline
// (character stream, pp-token recognizer, token buffer stack) that turns
// C11 source text into preprocessing tokens.
package lex

import (
	"fmt"
	"os"
	"strings"

	"github.com/oscarcs/cc11/container"
)

// Reporter is the diagnostic sink the lexer calls into on malformed input.
// Error and Errorf never return to the caller; Warnf may be promoted to a
// fatal error or suppressed entirely depending on the reporter's own
// policy, which the lexer has no say over.
type Reporter interface {
	Error(format string, args ...any)
	Errorf(pos Position, format string, args ...any)
	Warnf(pos Position, format string, args ...any)
}

// Lexer owns everything stateful about tokenizing one compilation unit:
// the active stream stack, any stashed stream stacks, and the token
// buffer stack. Nothing here is global, so nothing prevents running
// several independent Lexers (e.g. one per translation unit) concurrently.
type Lexer struct {
	streams        *streamStack
	stashedStreams []*streamStack
	buffers        *container.Sequence

	pos Position

	report   Reporter
	tabWidth int
}

// New returns a Lexer with no stream pushed yet; call Init or StreamPush
// before Lex.
func New(report Reporter) *Lexer {
	l := &Lexer{
		streams:  newStreamStack(),
		buffers:  container.NewSequence(),
		report:   report,
		tabWidth: 1,
	}
	l.buffers.Push(container.NewSequence())
	return l
}

// SetTabWidth configures how many columns a tab advances in every stream
// pushed afterward (via Init, StreamPush, or StreamStash).
func (l *Lexer) SetTabWidth(n int) {
	if n > 0 {
		l.tabWidth = n
	}
}

// Init opens filename (or stdin, if filename is "-") and pushes it as the
// lexer's initial stream.
func (l *Lexer) Init(filename string) error {
	if filename == "-" {
		f, err := NewFile(os.Stdin, "-")
		if err != nil {
			return err
		}
		f.SetTabWidth(l.tabWidth)
		l.streams.push(f)
		return nil
	}
	fh, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", filename, err)
	}
	f, err := NewFile(fh, filename)
	if err != nil {
		return err
	}
	f.SetTabWidth(l.tabWidth)
	l.streams.push(f)
	return nil
}

// readc reads one canonicalized character, transparently popping
// exhausted streams (other than the outermost) and splicing away any
// backslash-newline line continuation.
func (l *Lexer) readc() rune {
	for {
		c := l.streams.top().get()
		if c == runeEOF {
			if l.streams.depth() == 1 {
				return runeEOF
			}
			top := l.streams.pop()
			top.close()
			continue
		}
		if c != '\\' {
			return c
		}
		c2 := l.streams.top().get()
		if c2 == '\n' {
			continue
		}
		l.streams.top().unget(c2)
		return c
	}
}

func (l *Lexer) unreadc(c rune) {
	if c == runeEOF {
		return
	}
	l.streams.top().unget(c)
}

func (l *Lexer) peek() rune {
	c := l.readc()
	l.unreadc(c)
	return c
}

// next consumes and returns true if the next character is expect;
// otherwise it pushes the character back and returns false.
func (l *Lexer) next(expect rune) bool {
	c := l.readc()
	if c == expect {
		return true
	}
	l.unreadc(c)
	return false
}

func (l *Lexer) getPos(delta int) Position {
	f := l.CurrentFile()
	return Position{File: f.name, Line: f.line, Column: f.column + delta}
}

func (l *Lexer) mark() {
	l.pos = l.getPos(0)
}

func (l *Lexer) makeToken(kind Kind) *Token {
	f := l.CurrentFile()
	t := &Token{Kind: kind, File: f, Line: l.pos.Line, Column: l.pos.Column}
	if f != nil {
		t.Count = f.ntok
		f.ntok++
	}
	return t
}

func (l *Lexer) makeIdent(s string) *Token {
	t := l.makeToken(Ident)
	t.Str = s
	return t
}

func (l *Lexer) makeNumber(s string) *Token {
	t := l.makeToken(Number)
	t.Str = s
	return t
}

func (l *Lexer) makeKeyword(id int) *Token {
	t := l.makeToken(Keyword)
	t.ID = id
	return t
}

func (l *Lexer) makeInvalid(c byte) *Token {
	t := l.makeToken(Invalid)
	t.Byte = c
	return t
}

func (l *Lexer) makeChar(r rune, enc Encoding) *Token {
	t := l.makeToken(Char)
	t.CodePoint = r
	t.Encoding = enc
	return t
}

// makeString builds a String token. body is the NUL-terminated payload
// (length bytes of content plus the trailing NUL); unlike 8cc's
// make_strtok(buf_body(b), buf_len(b), enc), whose length counts the NUL,
// length here excludes it.
func (l *Lexer) makeString(body []byte, length int, enc Encoding) *Token {
	t := l.makeToken(String)
	t.Bytes = body
	t.Length = length
	t.Encoding = enc
	return t
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v'
}

func isDigit(c rune) bool { return '0' <= c && c <= '9' }

func isAlpha(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func (l *Lexer) skipLine() {
	for {
		c := l.readc()
		if c == runeEOF {
			return
		}
		if c == '\n' {
			l.unreadc(c)
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	p := l.getPos(-2)
	maybeEnd := false
	for {
		c := l.readc()
		if c == runeEOF {
			l.report.Errorf(p, "premature end of block comment")
			return
		}
		if c == '/' && maybeEnd {
			return
		}
		maybeEnd = c == '*'
	}
}

func (l *Lexer) doSkipSpace() bool {
	c := l.readc()
	if c == runeEOF {
		return false
	}
	if isWhitespace(c) {
		return true
	}
	if c == '/' {
		if l.next('*') {
			l.skipBlockComment()
			return true
		}
		if l.next('/') {
			l.skipLine()
			return true
		}
	}
	l.unreadc(c)
	return false
}

func (l *Lexer) skipSpace() bool {
	if !l.doSkipSpace() {
		return false
	}
	for l.doSkipSpace() {
	}
	return true
}

// --- escape sequences -------------------------------------------------

func (l *Lexer) nextOct() bool {
	c := l.peek()
	return c >= '0' && c <= '7'
}

func (l *Lexer) readOctalChar(first rune) rune {
	r := first - '0'
	if !l.nextOct() {
		return r
	}
	r = (r << 3) | (l.readc() - '0')
	if !l.nextOct() {
		return r
	}
	return (r << 3) | (l.readc() - '0')
}

func hexVal(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (l *Lexer) readHexChar() rune {
	p := l.getPos(-2)
	c := l.readc()
	v, ok := hexVal(c)
	if !ok {
		l.report.Errorf(p, `\x used with no following hex digits`)
		l.unreadc(c)
		return 0
	}
	r := v
	for {
		c = l.readc()
		v, ok := hexVal(c)
		if !ok {
			l.unreadc(c)
			return r
		}
		r = (r << 4) | v
	}
}

func isValidUCN(c rune) bool {
	if c >= 0xD800 && c <= 0xDFFF {
		return false
	}
	return c >= 0xA0 || c == '$' || c == '@' || c == '`'
}

func (l *Lexer) readUniversalChar(n int) rune {
	p := l.getPos(-2)
	var r rune
	for i := 0; i < n; i++ {
		c := l.readc()
		v, ok := hexVal(c)
		if !ok {
			l.report.Errorf(p, "invalid universal character name")
			return 0
		}
		r = (r << 4) | v
	}
	if !isValidUCN(r) {
		marker := byte('u')
		if n == 8 {
			marker = 'U'
		}
		l.report.Errorf(p, "invalid universal character: \\%c%0*x", marker, n, r)
	}
	return r
}

func (l *Lexer) readEscapedChar() rune {
	p := l.getPos(-1)
	c := l.readc()
	switch c {
	case '\'', '"', '?', '\\':
		return c
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	case 'e':
		return 0x1B
	case 'x':
		return l.readHexChar()
	case 'u':
		return l.readUniversalChar(4)
	case 'U':
		return l.readUniversalChar(8)
	}
	if c >= '0' && c <= '7' {
		return l.readOctalChar(c)
	}
	l.report.Warnf(p, "unknown escape character: \\%c", c)
	return c
}

// --- literals -----------------------------------------------------------

func (l *Lexer) readChar(enc Encoding) *Token {
	c := l.readc()
	var r rune
	if c == '\\' {
		r = l.readEscapedChar()
	} else {
		r = c
	}
	if c2 := l.readc(); c2 != '\'' {
		l.report.Errorf(l.pos, "unterminated character constant")
		l.unreadc(c2)
	}
	if enc == EncNone {
		r = rune(byte(r))
	}
	return l.makeChar(r, enc)
}

func (l *Lexer) readString(enc Encoding) *Token {
	b := container.NewBuffer()
	for {
		c := l.readc()
		if c == runeEOF || c == '\n' {
			l.report.Errorf(l.pos, "unterminated string literal")
			l.unreadc(c)
			break
		}
		if c == '"' {
			break
		}
		if c != '\\' {
			b.Write(byte(c))
			continue
		}
		ahead := l.peek()
		isUCN := ahead == 'u' || ahead == 'U'
		r := l.readEscapedChar()
		if isUCN {
			container.WriteUTF8(b, r)
		} else {
			b.Write(byte(r))
		}
	}
	length := b.Len()
	b.Write(0)
	return l.makeString(b.Body(), length, enc)
}

func (l *Lexer) readIdent(first rune) *Token {
	b := container.NewBuffer()
	b.Write(byte(first))
	for {
		c := l.readc()
		if isAlpha(c) || isDigit(c) || c == '_' || c == '$' || c >= 0x80 {
			b.Write(byte(c))
			continue
		}
		if c == '\\' {
			ahead := l.peek()
			if ahead == 'u' || ahead == 'U' {
				container.WriteUTF8(b, l.readEscapedChar())
				continue
			}
		}
		l.unreadc(c)
		return l.makeIdent(string(b.Body()))
	}
}

func (l *Lexer) readNumber(first rune) *Token {
	b := container.NewBuffer()
	b.Write(byte(first))
	last := first
	for {
		c := l.readc()
		flonumSign := strings.ContainsRune("eEpP", last) && (c == '+' || c == '-')
		if !isDigit(c) && !isAlpha(c) && c != '.' && !flonumSign {
			l.unreadc(c)
			return l.makeNumber(string(b.Body()))
		}
		b.Write(byte(c))
		last = c
	}
}

// --- digraphs and operators ----------------------------------------------

func (l *Lexer) readHashDigraph() *Token {
	if l.next('>') {
		return l.makeKeyword('}')
	}
	if l.next(':') {
		if l.next('%') {
			if l.next(':') {
				return l.makeKeyword(KeywordHashHash)
			}
			l.unreadc('%')
		}
		return l.makeKeyword('#')
	}
	return nil
}

func (l *Lexer) readRep(expect rune, then int, otherwise int) *Token {
	if l.next(expect) {
		return l.makeKeyword(then)
	}
	return l.makeKeyword(otherwise)
}

func (l *Lexer) readRep2(e1 rune, t1 int, e2 rune, t2 int, otherwise int) *Token {
	if l.next(e1) {
		return l.makeKeyword(t1)
	}
	if l.next(e2) {
		return l.makeKeyword(t2)
	}
	return l.makeKeyword(otherwise)
}

// doReadToken recognizes exactly one pp-token, not counting the
// whitespace/comment coalescing that skipSpace performs first.
func (l *Lexer) doReadToken() *Token {
	if l.skipSpace() {
		return l.makeToken(Space)
	}
	l.mark()
	c := l.readc()
	switch {
	case c == '\n':
		return l.makeToken(Newline)
	case c == ':':
		if l.next('>') {
			return l.makeKeyword(']')
		}
		return l.makeKeyword(':')
	case c == '#':
		if l.next('#') {
			return l.makeKeyword(KeywordHashHash)
		}
		return l.makeKeyword('#')
	case c == '+':
		return l.readRep2('+', OpInc, '=', OpAAdd, '+')
	case c == '*':
		return l.readRep('=', OpAMul, '*')
	case c == '=':
		return l.readRep('=', OpEq, '=')
	case c == '!':
		return l.readRep('=', OpNe, '!')
	case c == '&':
		return l.readRep2('&', OpLogAnd, '=', OpAAnd, '&')
	case c == '|':
		return l.readRep2('|', OpLogOr, '=', OpAOr, '|')
	case c == '^':
		return l.readRep('=', OpAXor, '^')
	case c == '"':
		return l.readString(EncNone)
	case c == '\'':
		return l.readChar(EncNone)
	case c == '/':
		return l.readRep('=', OpADiv, '/')
	case c == 'L' || c == 'U':
		enc := EncWChar
		if c == 'U' {
			enc = EncChar32
		}
		if l.next('"') {
			return l.readString(enc)
		}
		if l.next('\'') {
			return l.readChar(enc)
		}
		return l.readIdent(c)
	case c == 'u':
		if l.next('"') {
			return l.readString(EncChar16)
		}
		if l.next('\'') {
			return l.readChar(EncChar16)
		}
		if l.next('8') {
			if l.next('"') {
				return l.readString(EncUTF8)
			}
			l.unreadc('8')
		}
		return l.readIdent(c)
	case c == '.':
		if isDigit(l.peek()) {
			return l.readNumber(c)
		}
		if l.next('.') {
			if l.next('.') {
				return l.makeKeyword(KeywordEllipsis)
			}
			return l.makeIdent("..")
		}
		return l.makeKeyword('.')
	case c == '(' || c == ')' || c == ',' || c == ';' || c == '[' || c == ']' ||
		c == '{' || c == '}' || c == '?' || c == '~':
		return l.makeKeyword(int(c))
	case c == '-':
		if l.next('-') {
			return l.makeKeyword(OpDec)
		}
		if l.next('>') {
			return l.makeKeyword(OpArrow)
		}
		if l.next('=') {
			return l.makeKeyword(OpASub)
		}
		return l.makeKeyword('-')
	case c == '<':
		if l.next('<') {
			return l.readRep('=', OpASal, OpSal)
		}
		if l.next('=') {
			return l.makeKeyword(OpLe)
		}
		if l.next(':') {
			return l.makeKeyword('[')
		}
		if l.next('%') {
			return l.makeKeyword('{')
		}
		return l.makeKeyword('<')
	case c == '>':
		if l.next('=') {
			return l.makeKeyword(OpGe)
		}
		if l.next('>') {
			return l.readRep('=', OpASar, OpSar)
		}
		return l.makeKeyword('>')
	case c == '%':
		if tok := l.readHashDigraph(); tok != nil {
			return tok
		}
		return l.readRep('=', OpAMod, '%')
	case c == runeEOF:
		return l.makeToken(EOF)
	case isAlpha(c) || c == '_' || c == '$' || c >= 0x80:
		return l.readIdent(c)
	case isDigit(c):
		return l.readNumber(c)
	default:
		return l.makeInvalid(byte(c))
	}
}

// Lex returns the next pp-token, draining the active token buffer first,
// synthesizing EOF when the buffer stack is more than one level deep (so
// a stashed replay never reads past its own list into the outer stream),
// and otherwise reading from the character stream. Consecutive SPACE
// tokens are coalesced into the Space flag of the following token.
func (l *Lexer) Lex() *Token {
	buf := l.activeBuffer()
	if buf.Len() > 0 {
		return buf.Pop().(*Token)
	}
	if l.buffers.Len() > 1 {
		return l.makeToken(EOF)
	}
	f := l.CurrentFile()
	bol := f != nil && f.column == 1
	tok := l.doReadToken()
	for tok.Kind == Space {
		tok = l.doReadToken()
		tok.Space = true
	}
	tok.BOL = bol
	return tok
}

// LexString tokenizes s in isolation (via StreamStash/StreamUnstash) and
// returns its single leading token. It reports an error if s contains
// more than one token's worth of content.
func (l *Lexer) LexString(s string) *Token {
	l.StreamStash(NewFileString(s))
	r := l.doReadToken()
	l.next('\n')
	p := l.getPos(0)
	if l.peek() != runeEOF {
		l.report.Errorf(p, "unconsumed input: %s", s)
	}
	l.StreamUnstash()
	return r
}

func isIdentNamed(t *Token, name string) bool {
	return t.Kind == Ident && t.Str == name
}

func (l *Lexer) skipChar() {
	if l.readc() == '\\' {
		l.readc()
	}
	c := l.readc()
	for c != runeEOF && c != '\'' {
		c = l.readc()
	}
}

func (l *Lexer) skipString() {
	for c := l.readc(); c != runeEOF && c != '"'; c = l.readc() {
		if c == '\\' {
			l.readc()
		}
	}
}

// SkipCondIncl fast-forwards past the body of an #if/#ifdef/#ifndef block
// that an external preprocessor has decided not to take, without fully
// tokenizing it. It stops as soon as it finds, at the start of a line and
// at the same nesting depth, a #else, #elif, or #endif — ungetting that
// directive's tokens so the caller (the preprocessor) can process it.
func (l *Lexer) SkipCondIncl() {
	nest := 0
	for {
		f := l.CurrentFile()
		if f == nil {
			return
		}
		bol := f.column == 1
		l.skipSpace()
		c := l.readc()
		if c == runeEOF {
			return
		}
		if c == '\'' {
			l.skipChar()
			continue
		}
		if c == '"' {
			l.skipString()
			continue
		}
		if c != '#' || !bol {
			continue
		}
		column := l.CurrentFile().column - 1
		tok := l.Lex()
		if tok.Kind != Ident {
			continue
		}
		if nest == 0 && (isIdentNamed(tok, "else") || isIdentNamed(tok, "elif") || isIdentNamed(tok, "endif")) {
			l.UngetToken(tok)
			hash := l.makeKeyword('#')
			hash.BOL = true
			hash.Column = column
			l.UngetToken(hash)
			return
		}
		if isIdentNamed(tok, "if") || isIdentNamed(tok, "ifdef") || isIdentNamed(tok, "ifndef") {
			nest++
		} else if nest > 0 && isIdentNamed(tok, "endif") {
			nest--
		}
		l.skipLine()
	}
}

// ReadHeaderFileName scans a #include filename using the non-standard
// quoting rules C reserves for it (everything up to the closing quote or
// angle bracket is literal — no escape processing). It only succeeds
// immediately after a directive's tokens, before any have been buffered;
// ok is false if the buffer already holds tokens or if the next
// character is neither `"` nor `<`.
func (l *Lexer) ReadHeaderFileName() (name string, isSystem bool, ok bool) {
	if !l.bufferEmpty() {
		return "", false, false
	}
	l.skipSpace()
	p := l.getPos(0)
	var closeCh rune
	if l.next('"') {
		closeCh = '"'
	} else if l.next('<') {
		isSystem = true
		closeCh = '>'
	} else {
		return "", false, false
	}
	b := container.NewBuffer()
	for !l.next(closeCh) {
		c := l.readc()
		if c == runeEOF || c == '\n' {
			l.report.Errorf(p, "premature end of header name")
			return "", false, false
		}
		b.Write(byte(c))
	}
	if b.Len() == 0 {
		l.report.Errorf(p, "header name must not be empty")
		return "", false, false
	}
	return string(b.Body()), isSystem, true
}
