package formula

import "strconv"

// node is an evaluable expression tree node.
type node interface {
	eval(r Resolver) (Value, error)
}

type identNode struct{ name string }
type numberNode struct{ val float64 }
type stringNode struct{ val string }

type unaryNode struct {
	op      string // "-" or "not"
	operand node
}

type binaryNode struct {
	op          string
	left, right node
}

// Operator precedence, loosest first. Mirrors the precedence the formulas
// were historically evaluated under.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdd
	precMul
	precUnary
)

func binaryPrec(t token) int {
	switch t.kind {
	case tokOr:
		return precOr
	case tokAnd:
		return precAnd
	case tokIn:
		return precCompare
	case tokOp:
		switch t.text {
		case "==", "!=", "<", "<=", ">", ">=":
			return precCompare
		case "+", "-":
			return precAdd
		case "*", "/":
			return precMul
		}
	}
	return 0
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, msg string) error {
	return &SyntaxError{Text: p.src, Pos: t.pos, Msg: msg}
}

// parseExpr is a Pratt loop: parse a prefix expression, then fold in binary
// operators while their precedence stays at or above min.
func (p *parser) parseExpr(min int) (node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		prec := binaryPrec(t)
		if prec == 0 || prec < min {
			return left, nil
		}
		p.next()
		op := t.text
		// binary operators are left-associative, so the right side binds
		// one level tighter
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parsePrefix() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		val, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "bad numeric literal "+strconv.Quote(t.text))
		}
		return &numberNode{val: val}, nil
	case tokString:
		return &stringNode{val: t.text}, nil
	case tokIdent:
		return &identNode{name: t.text}, nil
	case tokNot:
		operand, err := p.parseExpr(precNot)
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: "not", operand: operand}, nil
	case tokOp:
		if t.text == "-" {
			operand, err := p.parseExpr(precUnary)
			if err != nil {
				return nil, err
			}
			return &unaryNode{op: "-", operand: operand}, nil
		}
		return nil, p.errorf(t, "unexpected operator "+strconv.Quote(t.text))
	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected closing parenthesis")
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of formula")
	default:
		return nil, p.errorf(t, "unexpected token "+strconv.Quote(t.text))
	}
}

func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "trailing input after expression")
	}
	return root, nil
}

func collectVars(n node, seen map[string]bool) {
	switch v := n.(type) {
	case *identNode:
		seen[v.name] = true
	case *unaryNode:
		collectVars(v.operand, seen)
	case *binaryNode:
		collectVars(v.left, seen)
		collectVars(v.right, seen)
	}
}
