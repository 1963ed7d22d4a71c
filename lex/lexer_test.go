package lex

import (
	"testing"

	"github.com/oscarcs/cc11/container"
)

// fakeReporter records diagnostics instead of terminating the process, so
// error- and warning-path tests can inspect what was reported.
type fakeReporter struct {
	errors   []string
	warnings []string
}

func (r *fakeReporter) Error(format string, args ...any) {
	r.errors = append(r.errors, sprintfFake(format, args...))
}

func (r *fakeReporter) Errorf(pos Position, format string, args ...any) {
	r.errors = append(r.errors, sprintfFake(format, args...))
}

func (r *fakeReporter) Warnf(pos Position, format string, args ...any) {
	r.warnings = append(r.warnings, sprintfFake(format, args...))
}

func sprintfFake(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return format // content doesn't matter for these tests, only the count
}

func newTestLexer(src string) (*Lexer, *fakeReporter) {
	r := &fakeReporter{}
	l := New(r)
	l.StreamPush(NewFileString(src))
	return l, r
}

func newTestLexerTabWidth(src string, tabWidth int) (*Lexer, *fakeReporter) {
	r := &fakeReporter{}
	l := New(r)
	l.SetTabWidth(tabWidth)
	l.StreamPush(NewFileString(src))
	return l, r
}

func lexAll(l *Lexer) []*Token {
	var toks []*Token
	for {
		t := l.Lex()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}

func nonTrivial(toks []*Token) []*Token {
	var out []*Token
	for _, t := range toks {
		if t.Kind == Space || t.Kind == Newline {
			continue
		}
		out = append(out, t)
	}
	return out
}

func TestLexIdentifiers(t *testing.T) {
	l, _ := newTestLexer("foo _bar1 $baz")
	toks := nonTrivial(lexAll(l))
	want := []string{"foo", "_bar1", "$baz"}
	for i, w := range want {
		if toks[i].Kind != Ident || toks[i].Str != w {
			t.Fatalf("token %d = %+v, want Ident %q", i, toks[i], w)
		}
	}
	if toks[len(toks)-1].Kind != EOF {
		t.Fatal("final token is not EOF")
	}
}

func TestLexPPNumbers(t *testing.T) {
	l, _ := newTestLexer("123 0x1A 3.14 1e+10 1.0e-5f")
	toks := nonTrivial(lexAll(l))
	want := []string{"123", "0x1A", "3.14", "1e+10", "1.0e-5f"}
	for i, w := range want {
		if toks[i].Kind != Number || toks[i].Str != w {
			t.Fatalf("token %d = %+v, want Number %q", i, toks[i], w)
		}
	}
}

func TestLexCharConstant(t *testing.T) {
	l, _ := newTestLexer(`'a' '\n' '\x41'`)
	toks := nonTrivial(lexAll(l))
	if toks[0].Kind != Char || toks[0].CodePoint != 'a' {
		t.Fatalf("token 0 = %+v, want Char 'a'", toks[0])
	}
	if toks[1].Kind != Char || toks[1].CodePoint != '\n' {
		t.Fatalf("token 1 = %+v, want Char '\\n'", toks[1])
	}
	if toks[2].Kind != Char || toks[2].CodePoint != 'A' {
		t.Fatalf("token 2 = %+v, want Char 'A' (\\x41)", toks[2])
	}
}

func TestLexStringLiteralWithUTF8Body(t *testing.T) {
	l, _ := newTestLexer(`"hi中"`)
	toks := nonTrivial(lexAll(l))
	if toks[0].Kind != String {
		t.Fatalf("token 0 kind = %v, want String", toks[0].Kind)
	}
	if toks[0].Length != len("hi中") {
		t.Fatalf("Length = %d, want %d", toks[0].Length, len("hi中"))
	}
	got := string(toks[0].Bytes[:toks[0].Length])
	want := "hi中"
	if got != want {
		t.Fatalf("Bytes[:Length] = %q, want %q", got, want)
	}
	if last := toks[0].Bytes[len(toks[0].Bytes)-1]; last != 0 {
		t.Fatalf("Bytes is not NUL-terminated, last byte = %#x", last)
	}
}

func TestLexStringWithUniversalCharacterEscape(t *testing.T) {
	l, _ := newTestLexer("\"\\u00e9\"")
	toks := nonTrivial(lexAll(l))
	if toks[0].Kind != String || toks[0].Encoding != EncNone {
		t.Fatalf("token 0 = %+v, want String with encoding NONE", toks[0])
	}
	want := []byte{0xC3, 0xA9, 0x00}
	if toks[0].Length != 2 {
		t.Fatalf("Length = %d, want 2", toks[0].Length)
	}
	if string(toks[0].Bytes) != string(want) {
		t.Fatalf("Bytes = % x, want % x", toks[0].Bytes, want)
	}
}

func TestLexStringEncodingPrefixes(t *testing.T) {
	cases := []struct {
		src string
		enc Encoding
	}{
		{`"plain"`, EncNone},
		{`L"wide"`, EncWChar},
		{`u"c16"`, EncChar16},
		{`U"c32"`, EncChar32},
		{`u8"utf8"`, EncUTF8},
	}
	for _, c := range cases {
		l, _ := newTestLexer(c.src)
		toks := nonTrivial(lexAll(l))
		if toks[0].Kind != String || toks[0].Encoding != c.enc {
			t.Errorf("%q: token = %+v, want String with encoding %v", c.src, toks[0], c.enc)
		}
	}
}

func TestLexDigraphsAndOperators(t *testing.T) {
	l, _ := newTestLexer("<: :> <% %> %: %:%: <<= >>= ... ->")
	toks := nonTrivial(lexAll(l))
	wantIDs := []int{'[', ']', '{', '}', '#', KeywordHashHash, OpASal, OpASar, KeywordEllipsis, OpArrow}
	for i, want := range wantIDs {
		if toks[i].Kind != Keyword || toks[i].ID != want {
			t.Fatalf("token %d = %+v, want Keyword id %d", i, toks[i], want)
		}
	}
}

func TestLexSpaceCoalescedIntoFlag(t *testing.T) {
	l, _ := newTestLexer("a    b")
	toks := lexAll(l)
	var identCount int
	for _, tok := range toks {
		if tok.Kind == Ident {
			identCount++
		}
	}
	if identCount != 2 {
		t.Fatalf("got %d idents, want 2", identCount)
	}
	// No Space-kind token should ever reach the caller directly in this
	// stream: runs of whitespace collapse into the following token's flag.
	for _, tok := range toks {
		if tok.Kind == Space {
			t.Fatal("Lex returned a bare Space-kind token")
		}
	}
	nt := nonTrivial(toks)
	if !nt[1].Space {
		t.Fatal("second identifier should have its Space flag set")
	}
	if nt[0].Space {
		t.Fatal("first identifier at start of input should not have Space set")
	}
}

func TestLexBOLFlag(t *testing.T) {
	l, _ := newTestLexer("a\nb")
	toks := nonTrivial(lexAll(l))
	if !toks[0].BOL {
		t.Fatal("first token on first line should be BOL")
	}
	if !toks[1].BOL {
		t.Fatal("token after a newline should be BOL")
	}
}

func TestLexLineSplicing(t *testing.T) {
	l, _ := newTestLexer("fo\\\no")
	toks := nonTrivial(lexAll(l))
	if toks[0].Kind != Ident || toks[0].Str != "foo" {
		t.Fatalf("token 0 = %+v, want Ident %q (backslash-newline spliced away)", toks[0], "foo")
	}
}

func TestLexTabWidthAffectsColumn(t *testing.T) {
	l, _ := newTestLexerTabWidth("\tb", 8)
	toks := nonTrivial(lexAll(l))
	if toks[0].Column != 9 {
		t.Fatalf("Column = %d, want 9 (tab to column 1 + width 8)", toks[0].Column)
	}

	l2, _ := newTestLexer("\tb") // default tab width is 1
	toks2 := nonTrivial(lexAll(l2))
	if toks2[0].Column != 2 {
		t.Fatalf("Column = %d, want 2 with default tab width 1", toks2[0].Column)
	}
}

func TestLexCRLFCanonicalization(t *testing.T) {
	l, _ := newTestLexer("a\r\nb\rc")
	toks := nonTrivial(lexAll(l))
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if toks[i].Str != w {
			t.Fatalf("token %d = %q, want %q", i, toks[i].Str, w)
		}
	}
}

func TestLexSyntheticTrailingNewline(t *testing.T) {
	l, _ := newTestLexer("a")
	toks := lexAll(l)
	var sawNewline bool
	for _, tok := range toks {
		if tok.Kind == Newline {
			sawNewline = true
		}
	}
	if !sawNewline {
		t.Fatal("source without a trailing newline should still synthesize one")
	}
}

func TestLexTokenCountMonotonic(t *testing.T) {
	l, _ := newTestLexer("a b c")
	toks := nonTrivial(lexAll(l))
	for i := 1; i < len(toks); i++ {
		if toks[i].Count <= toks[i-1].Count {
			t.Fatalf("token %d Count=%d not greater than previous Count=%d", i, toks[i].Count, toks[i-1].Count)
		}
	}
}

func TestUngetTokenRoundTrip(t *testing.T) {
	l, _ := newTestLexer("a b")
	first := l.Lex()
	l.UngetToken(first)
	second := l.Lex()
	if second.Str != first.Str || second.Kind != first.Kind {
		t.Fatalf("re-lexed token %+v does not match ungotten token %+v", second, first)
	}
}

func TestUngetEOFIsNoop(t *testing.T) {
	l, _ := newTestLexer("")
	tok := l.Lex()
	if tok.Kind != EOF {
		t.Fatalf("first token = %+v, want EOF", tok)
	}
	l.UngetToken(tok)
	again := l.Lex()
	if again.Kind != EOF {
		t.Fatalf("second token after ungetting EOF = %+v, want EOF", again)
	}
}

func TestTokenBufferStashIsolatesReplay(t *testing.T) {
	l, _ := newTestLexer("outer")
	replay := container.NewSequenceWith(&Token{Kind: Ident, Str: "inner"})
	l.TokenBufferStash(replay)
	tok := l.Lex()
	if tok.Kind != Ident || tok.Str != "inner" {
		t.Fatalf("stashed buffer token = %+v, want Ident %q", tok, "inner")
	}
	eof := l.Lex()
	if eof.Kind != EOF {
		t.Fatalf("after draining stashed buffer, Lex() = %+v, want EOF", eof)
	}
	l.TokenBufferUnstash()
	tok2 := l.Lex()
	if tok2.Kind != Ident || tok2.Str != "outer" {
		t.Fatalf("after unstash, Lex() = %+v, want Ident %q", tok2, "outer")
	}
}

func TestStreamStashUnstash(t *testing.T) {
	l, _ := newTestLexer("outer")
	l.StreamStash(NewFileString("inner"))
	tok := l.Lex()
	if tok.Kind != Ident || tok.Str != "inner" {
		t.Fatalf("stashed stream token = %+v, want Ident %q", tok, "inner")
	}
	l.StreamUnstash()
	tok2 := l.Lex()
	if tok2.Kind != Ident || tok2.Str != "outer" {
		t.Fatalf("after unstash, Lex() = %+v, want Ident %q", tok2, "outer")
	}
}

func TestLexStringSingleToken(t *testing.T) {
	l, r := newTestLexer("")
	tok := l.LexString("foo")
	if tok.Kind != Ident || tok.Str != "foo" {
		t.Fatalf("LexString(\"foo\") = %+v, want Ident %q", tok, "foo")
	}
	if len(r.errors) != 0 {
		t.Fatalf("unexpected errors: %v", r.errors)
	}
}

func TestLexStringRejectsExtraInput(t *testing.T) {
	l, r := newTestLexer("")
	l.LexString("foo bar")
	if len(r.errors) == 0 {
		t.Fatal("LexString with more than one token's worth of input should report an error")
	}
}

func TestSkipCondInclStopsAtMatchingEndif(t *testing.T) {
	src := "junk junk\n#if 1\nnested junk\n#endif\nmore junk\n#endif\nafter\n"
	l, _ := newTestLexer(src)
	l.SkipCondIncl()
	hash := l.Lex()
	if !IsKeyword(hash, '#') {
		t.Fatalf("token after SkipCondIncl = %+v, want Keyword '#'", hash)
	}
	directive := l.Lex()
	if directive.Kind != Ident || directive.Str != "endif" {
		t.Fatalf("directive token = %+v, want Ident %q", directive, "endif")
	}
}

func TestReadHeaderFileNameQuoted(t *testing.T) {
	l, _ := newTestLexer(`"foo/bar.h" rest`)
	name, isSystem, ok := l.ReadHeaderFileName()
	if !ok || isSystem || name != "foo/bar.h" {
		t.Fatalf("ReadHeaderFileName() = %q, %v, %v", name, isSystem, ok)
	}
}

func TestReadHeaderFileNameAngleBracket(t *testing.T) {
	l, _ := newTestLexer(`<stdio.h>`)
	name, isSystem, ok := l.ReadHeaderFileName()
	if !ok || !isSystem || name != "stdio.h" {
		t.Fatalf("ReadHeaderFileName() = %q, %v, %v", name, isSystem, ok)
	}
}

func TestReadHeaderFileNameFailsWhenBufferNotEmpty(t *testing.T) {
	l, _ := newTestLexer(`"foo.h"`)
	tok := l.Lex()
	l.UngetToken(tok)
	_, _, ok := l.ReadHeaderFileName()
	if ok {
		t.Fatal("ReadHeaderFileName should fail once a token has been buffered")
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l, r := newTestLexer("\"no closing quote\n")
	l.Lex()
	if len(r.errors) == 0 {
		t.Fatal("unterminated string literal should report an error")
	}
}

func TestInvalidByteProducesInvalidToken(t *testing.T) {
	l, _ := newTestLexer("`")
	tok := l.Lex()
	if tok.Kind != Invalid || tok.Byte != '`' {
		t.Fatalf("token = %+v, want Invalid byte '`'", tok)
	}
}
