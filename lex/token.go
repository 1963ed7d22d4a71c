package lex

import (
	"fmt"

	"github.com/oscarcs/cc11/container"
)

// Kind identifies which of the pp-token categories a Token belongs to.
type Kind int

const (
	Ident   Kind = iota // identifier or keyword-shaped word
	Keyword             // punctuator or multi-character operator, by id
	Number              // pp-number, kept as its raw spelling
	Char                // character constant
	String              // string literal
	Space               // run of whitespace/comments, collapsed to one marker
	Newline             // end of a physical (post-splicing) line
	EOF                 // end of the outermost stream
	Invalid             // a byte that doesn't start any valid pp-token
)

// Encoding tags the literal prefix of a character constant or string
// literal, mirroring the five forms C11 recognizes.
type Encoding int

const (
	EncNone   Encoding = iota // no prefix: char/narrow string
	EncChar16                 // u prefix
	EncChar32                 // U prefix
	EncUTF8                   // u8 prefix (string literals only)
	EncWChar                  // L prefix
)

// Multi-character operator and digraph ids. Single-character punctuators
// use their own byte value as the id, so these start past the byte range.
const (
	KeywordHashHash = iota + 256
	KeywordEllipsis
	OpArrow
	OpInc
	OpDec
	OpEq
	OpNe
	OpLe
	OpGe
	OpLogAnd
	OpLogOr
	OpSal
	OpSar
	OpAAdd
	OpASub
	OpAMul
	OpADiv
	OpAMod
	OpAAnd
	OpAOr
	OpAXor
	OpASal
	OpASar
)

var opSpelling = map[int]string{
	int(KeywordHashHash): "##",
	int(KeywordEllipsis): "...",
	int(OpArrow):         "->",
	int(OpInc):           "++",
	int(OpDec):           "--",
	int(OpEq):            "==",
	int(OpNe):            "!=",
	int(OpLe):            "<=",
	int(OpGe):            ">=",
	int(OpLogAnd):        "&&",
	int(OpLogOr):         "||",
	int(OpSal):           "<<",
	int(OpSar):           ">>",
	int(OpAAdd):          "+=",
	int(OpASub):          "-=",
	int(OpAMul):          "*=",
	int(OpADiv):          "/=",
	int(OpAMod):          "%=",
	int(OpAAnd):          "&=",
	int(OpAOr):           "|=",
	int(OpAXor):          "^=",
	int(OpASal):          "<<=",
	int(OpASar):          ">>=",
}

// Token is a single preprocessing token. Which fields are meaningful
// depends on Kind: Str for Ident/Number, ID for Keyword, CodePoint/Encoding
// for Char, Bytes/Encoding for String, Byte for Invalid.
type Token struct {
	Kind Kind

	Str       string
	ID        int
	CodePoint rune
	Bytes     []byte // String payload, NUL-terminated; Length is the count before the terminator.
	Length    int
	Encoding  Encoding
	Byte      byte

	File   *File
	Line   int
	Column int
	Count  int

	BOL   bool // first token on its (post-splicing) physical line
	Space bool // preceded by whitespace or a comment

	// Hideset is reserved for a macro expander layered on top of the
	// lexer; the lexer never reads or writes it.
	Hideset any
}

// IsKeyword reports whether t is a Keyword token with the given id.
func IsKeyword(t *Token, id int) bool {
	return t != nil && t.Kind == Keyword && t.ID == id
}

// Pos returns t's starting position.
func (t *Token) Pos() Position {
	name := "<unknown>"
	if t.File != nil {
		name = t.File.name
	}
	return Position{File: name, Line: t.Line, Column: t.Column}
}

func (t *Token) String() string {
	switch t.Kind {
	case Ident, Number:
		return t.Str
	case Keyword:
		if t.ID < 256 {
			return string(rune(t.ID))
		}
		if s, ok := opSpelling[t.ID]; ok {
			return s
		}
		return fmt.Sprintf("<kw:%d>", t.ID)
	case Char:
		return "'" + container.QuoteChar(byte(t.CodePoint)) + "'"
	case String:
		return `"` + container.QuoteCStringLen(t.Bytes, t.Length) + `"`
	case Space:
		return " "
	case Newline:
		return "\n"
	case EOF:
		return "<eof>"
	case Invalid:
		return string(t.Byte)
	default:
		return "<?>"
	}
}

// GoString renders t for debugging, including its kind and position.
func (t *Token) GoString() string {
	return fmt.Sprintf("%s %q @ %s", t.KindName(), t.String(), t.Pos())
}

// KindName returns the upper-case name of t.Kind, as used in diagnostics
// and the -E unexpanded-token dump.
func (t *Token) KindName() string {
	switch t.Kind {
	case Ident:
		return "IDENT"
	case Keyword:
		return "KEYWORD"
	case Number:
		return "NUMBER"
	case Char:
		return "CHAR"
	case String:
		return "STRING"
	case Space:
		return "SPACE"
	case Newline:
		return "NEWLINE"
	case EOF:
		return "EOF"
	case Invalid:
		return "INVALID"
	default:
		return "?"
	}
}
