package syntax

import "strconv"

// Parser reads the surface language:
//
//	program := ["let" binding+ "in"] expr
//	binding := ident "=" expr ";"
//	expr    := lambda | atom+ [lambda]
//	lambda  := ("\" | "λ") ident+ "." expr
//	atom    := ident | number | "(" expr ")"
//
// Application associates to the left and a lambda extends as far right as
// possible. Comments run from "--" to the end of the line.
type Parser struct {
	tokenizer *Tokenizer
	current   Token
	depth     int
}

func NewParser(input string) (*Parser, error) {
	p := &Parser{tokenizer: NewTokenizer(input)}
	if _, err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() (Token, error) {
	tok := p.current
	next, err := p.tokenizer.Next()
	if err != nil {
		return tok, err
	}
	p.current = next
	return tok, nil
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	if p.current.Type != typ {
		return p.current, p.unexpected("expected %v", typ)
	}
	return p.advance()
}

func (p *Parser) unexpected(format string, args ...interface{}) *Error {
	switch p.current.Type {
	case TokEOF:
		return errorAt(p.current, ErrUnexpectedEOF, format, args...)
	case TokRParen:
		if p.depth == 0 {
			return errorAt(p.current, ErrUnmatchedParen, "no '(' to close")
		}
	}
	msg := errorAt(p.current, ErrUnexpected, format, args...)
	msg.Msg += ", found " + p.current.Type.String()
	return msg
}

// Parse reads a whole program.
func Parse(input string) (*Program, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	if p.current.Type == TokLet {
		let, err := p.advance()
		if err != nil {
			return nil, err
		}
		for p.current.Type == TokIdent {
			b, err := p.parseBinding()
			if err != nil {
				return nil, err
			}
			prog.Bindings = append(prog.Bindings, b)
		}
		if len(prog.Bindings) == 0 {
			return nil, errorAt(let, ErrEmptyLet, "")
		}
		if _, err := p.expect(TokIn); err != nil {
			return nil, err
		}
	}
	main, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokEOF {
		return nil, p.unexpected("expected end of input")
	}
	prog.Main = main
	return prog, nil
}

func (p *Parser) parseBinding() (Binding, error) {
	name, err := p.advance()
	if err != nil {
		return Binding{}, err
	}
	if _, err := p.expect(TokEquals); err != nil {
		return Binding{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return Binding{}, err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return Binding{}, err
	}
	return Binding{Name: name.Text, Value: value, Line: name.Line, Col: name.Col}, nil
}

func (p *Parser) parseExpr() (*Term, error) {
	if p.current.Type == TokLambda {
		return p.parseLambda()
	}
	var result *Term
	for {
		var arg *Term
		var err error
		switch p.current.Type {
		case TokIdent, TokNumber, TokLParen:
			arg, err = p.parseAtom()
		case TokLambda:
			// a bare lambda takes the rest of the application
			lam, err := p.parseLambda()
			if err != nil {
				return nil, err
			}
			if result == nil {
				return lam, nil
			}
			return &Term{Type: TermApp, Fun: result, Arg: lam, Line: result.Line, Col: result.Col}, nil
		default:
			if result == nil {
				return nil, p.unexpected("expected an expression")
			}
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = arg
		} else {
			result = &Term{Type: TermApp, Fun: result, Arg: arg, Line: result.Line, Col: result.Col}
		}
	}
}

func (p *Parser) parseLambda() (*Term, error) {
	lam, err := p.advance()
	if err != nil {
		return nil, err
	}
	t := &Term{Type: TermLam, Line: lam.Line, Col: lam.Col}
	for p.current.Type == TokIdent {
		param, err := p.advance()
		if err != nil {
			return nil, err
		}
		t.Params = append(t.Params, param.Text)
	}
	if len(t.Params) == 0 {
		return nil, p.unexpected("expected a parameter name")
	}
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	if t.Body, err = p.parseExpr(); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *Parser) parseAtom() (*Term, error) {
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokIdent:
		return &Term{Type: TermVar, Name: tok.Text, Line: tok.Line, Col: tok.Col}, nil
	case TokNumber:
		n, err := strconv.ParseUint(tok.Text, 10, 64)
		if err != nil {
			return nil, errorAt(tok, ErrBadNumber, "%s", tok.Text)
		}
		return &Term{Type: TermNumber, Number: n, Name: tok.Text, Line: tok.Line, Col: tok.Col}, nil
	}

	p.depth++
	inner, err := p.parseExpr()
	p.depth--
	if err != nil {
		if p.current.Type == TokEOF {
			return nil, unclosed(tok)
		}
		return nil, err
	}
	if p.current.Type != TokRParen {
		if p.current.Type == TokEOF {
			return nil, unclosed(tok)
		}
		return nil, p.unexpected("expected ')'")
	}
	if _, err := p.advance(); err != nil {
		return nil, err
	}
	return inner, nil
}

func unclosed(open Token) *Error {
	err := errorAt(open, ErrUnmatchedParen, "'(' is never closed")
	err.Incomplete = true
	return err
}
