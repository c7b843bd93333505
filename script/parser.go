// Package script parses batch job scripts. A script declares shared
// defaults and a list of images, each with per-image overrides:
//
//	stela v1 {
//	    defaults {
//	        font-size: 24pt
//	        fill: 0xE6E2E1
//	    }
//	    image "Hello\nWorld" {
//	        align: center
//	        shadow {
//	            color: 0x333333
//	            offset: 2,2
//	            blur: 4
//	        }
//	        out: "hello.png"
//	    }
//	}
package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `(?:#|0x)[0-9A-Fa-f]+`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|pt)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Script is the root AST node of a job script.
type Script struct {
	Pos      lexer.Position `parser:""`
	Version  string         `parser:"Newline* 'stela' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is a top-level entry: shared defaults or one image.
type Section struct {
	Defaults *Block      `parser:"  'defaults' Newline* @@"`
	Image    *ImageEntry `parser:"| @@"`
}

// ImageEntry declares one output image with its text and overrides.
type ImageEntry struct {
	Pos   lexer.Position `parser:""`
	Text  StringLiteral  `parser:"'image' @String"`
	Block *Block         `parser:"Newline* @@"`
}

// Block is a brace-delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is either a shadow sub-block or a key: value assignment.
type Statement struct {
	Shadow     *Block      `parser:"  'shadow' Newline* @@"`
	Assignment *Assignment `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:""`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a quoted string or a raw token run ending at the line.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Expr   *Expression    `parser:"| @@"`
}

// Text returns the value as the flat string the option parsers take.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Expr != nil:
		return v.Expr.join()
	}
	return ""
}

// Expression records raw tokens, so values like 2,-2 or 16/9 or
// grayscale+ need no grammar of their own.
type Expression struct {
	Parts []string
}

// Parse implements participle.Parseable for Expression.
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var parts []string
	for {
		tok := lex.Peek()
		if stopValue(tok) {
			break
		}
		parts = append(parts, lex.Next().Value)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	e.Parts = parts
	return nil
}

func (e *Expression) join() string {
	return strings.Join(e.Parts, "")
}

// StringLiteral unquotes Go-style strings on capture, so "\n" and
// "\\" in image text behave like their CLI counterparts.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

func stopValue(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, lbraceTokenType, rbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	default:
		return false
	}
}

func mustTokenType(name string) lexer.TokenType {
	symbols := scriptLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
