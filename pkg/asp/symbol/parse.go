package symbol

// parser is a small recursive-descent parser over the term grammar of
// spec §4.1: identifiers, integers, quoted strings, #sup/#inf, tuples,
// unary minus, ranges, and (when allowVars is set) variables/anonymous.
type parser struct {
	lex       *lexer
	allowVars bool
	tok       token
}

func newParser(input string, allowVars bool) (*parser, error) {
	p := &parser{lex: newLexer(input), allowVars: allowVars}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// ParseGround parses s as a term without variables: no variables or
// anonymous terms permitted. "Lo..Hi" range arguments are accepted and
// left unexpanded (see Unpool), so the result may not satisfy IsGround.
// Used for fact heads, fingerprint atoms, and assumption symbols.
func ParseGround(s string) (Term, error) {
	p, err := newParser(s, false)
	if err != nil {
		return Term{}, err
	}
	t, err := p.parseTerm()
	if err != nil {
		return Term{}, err
	}
	if p.tok.kind != tokEOF {
		return Term{}, &SyntaxError{Input: s, Pos: p.tok.pos, Msg: "trailing input"}
	}
	return t, nil
}

// ParsePattern parses s as a pattern term: variables and "_" are allowed
// and ranges are not unpooled.
func ParsePattern(s string) (Term, error) {
	p, err := newParser(s, true)
	if err != nil {
		return Term{}, err
	}
	t, err := p.parseRangeOrTerm()
	if err != nil {
		return Term{}, err
	}
	if p.tok.kind != tokEOF {
		return Term{}, &SyntaxError{Input: s, Pos: p.tok.pos, Msg: "trailing input"}
	}
	return t, nil
}

// parseRangeOrTerm parses "term" or "term..term".
func (p *parser) parseRangeOrTerm() (Term, error) {
	lo, err := p.parseTerm()
	if err != nil {
		return Term{}, err
	}
	if p.tok.kind != tokDotDot {
		return lo, nil
	}
	if err := p.advance(); err != nil {
		return Term{}, err
	}
	hi, err := p.parseTerm()
	if err != nil {
		return Term{}, err
	}
	return Term{Kind: KindRange, Args: []Term{lo, hi}}, nil
}

func (p *parser) parseTerm() (Term, error) {
	switch p.tok.kind {
	case tokNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return Number(n), nil
	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return String(s), nil
	case tokSup:
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return Term{Kind: KindSupremum}, nil
	case tokInf:
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return Term{Kind: KindInfimum}, nil
	case tokMinus:
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		inner, err := p.parseTerm()
		if err != nil {
			return Term{}, err
		}
		switch inner.Kind {
		case KindNumber:
			inner.Negative = !inner.Negative
			return inner, nil
		case KindFunction:
			inner.Negative = !inner.Negative
			return inner, nil
		default:
			return Term{}, &SyntaxError{Input: p.lex.input, Pos: p.tok.pos, Msg: "unary minus not applicable here"}
		}
	case tokUnderscore:
		if !p.allowVars {
			return Term{}, &SyntaxError{Input: p.lex.input, Pos: p.tok.pos, Msg: "anonymous variable not allowed here"}
		}
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return Term{Kind: KindAnonymous}, nil
	case tokVariable:
		if !p.allowVars {
			return Term{}, &SyntaxError{Input: p.lex.input, Pos: p.tok.pos, Msg: "variable not allowed here"}
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return Term{Kind: KindVariable, Name: name}, nil
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		if p.tok.kind != tokLParen {
			return Function(name), nil
		}
		args, err := p.parseArgList()
		if err != nil {
			return Term{}, err
		}
		return Term{Kind: KindFunction, Name: name, Args: args}, nil
	case tokLParen:
		args, err := p.parseArgList()
		if err != nil {
			return Term{}, err
		}
		return Term{Kind: KindFunction, Name: "", Args: args}, nil
	default:
		return Term{}, &SyntaxError{Input: p.lex.input, Pos: p.tok.pos, Msg: "unexpected token"}
	}
}

// parseArgList parses a parenthesized, comma-separated argument list,
// where the parser is positioned at the opening '('.
func (p *parser) parseArgList() ([]Term, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []Term
	if p.tok.kind == tokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return args, nil
	}
	for {
		t, err := p.parseRangeOrTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		case tokRParen:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return args, nil
		default:
			return nil, &SyntaxError{Input: p.lex.input, Pos: p.tok.pos, Msg: "expected ',' or ')'"}
		}
	}
}
