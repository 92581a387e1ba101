package syntax

import (
	"strings"
	"unicode"
)

type TokenType int

const (
	TokEOF TokenType = iota
	TokLambda
	TokIdent
	TokNumber
	TokLet
	TokIn
	TokEquals
	TokSemi
	TokDot
	TokLParen
	TokRParen
)

func (t TokenType) String() string {
	switch t {
	case TokEOF:
		return "end of input"
	case TokLambda:
		return "'\\'"
	case TokIdent:
		return "identifier"
	case TokNumber:
		return "number"
	case TokLet:
		return "'let'"
	case TokIn:
		return "'in'"
	case TokEquals:
		return "'='"
	case TokSemi:
		return "';'"
	case TokDot:
		return "'.'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	}
	return "unknown"
}

type Token struct {
	Type TokenType
	Text string
	Line int
	Col  int
}

type Tokenizer struct {
	input []rune
	pos   int
	line  int
	col   int
}

func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: []rune(input), line: 1, col: 1}
}

func (t *Tokenizer) peek() rune {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

func (t *Tokenizer) peekAt(n int) rune {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return t.input[t.pos+n]
}

func (t *Tokenizer) advance() rune {
	if t.pos >= len(t.input) {
		return 0
	}
	r := t.input[t.pos]
	t.pos++
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) {
		c := t.peek()
		if c == '-' && t.peekAt(1) == '-' {
			for t.pos < len(t.input) && t.peek() != '\n' {
				t.advance()
			}
		} else if unicode.IsSpace(c) {
			t.advance()
		} else {
			break
		}
	}
}

var punctuation = map[rune]TokenType{
	'\\': TokLambda,
	'λ':  TokLambda,
	'=':  TokEquals,
	';':  TokSemi,
	'.':  TokDot,
	'(':  TokLParen,
	')':  TokRParen,
}

func isIdentRune(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Next returns the next token, or an *Error for a character that cannot start
// one.
func (t *Tokenizer) Next() (Token, error) {
	t.skipWhitespace()

	tok := Token{Line: t.line, Col: t.col}
	if t.pos >= len(t.input) {
		tok.Type = TokEOF
		return tok, nil
	}

	c := t.peek()
	if typ, ok := punctuation[c]; ok {
		t.advance()
		tok.Type = typ
		tok.Text = string(c)
		return tok, nil
	}
	if !isIdentRune(c) {
		return tok, errorAt(tok, ErrUnexpectedChar, "%q", c)
	}

	var sb strings.Builder
	digits := true
	for t.pos < len(t.input) && isIdentRune(t.peek()) {
		r := t.advance()
		if r < '0' || r > '9' {
			digits = false
		}
		sb.WriteRune(r)
	}
	tok.Text = sb.String()
	switch {
	case digits:
		tok.Type = TokNumber
	case tok.Text == "let":
		tok.Type = TokLet
	case tok.Text == "in":
		tok.Type = TokIn
	default:
		tok.Type = TokIdent
	}
	return tok, nil
}

// Tokenize splits input into tokens, ending with TokEOF.
func Tokenize(input string) ([]Token, error) {
	t := NewTokenizer(input)
	var toks []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == TokEOF {
			return toks, nil
		}
	}
}
