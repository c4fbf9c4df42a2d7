package rpallang

// file parser.go is a predictive recursive-descent parser over the RPAL
// grammar (spec.md 4.2). Productions are implemented as one method per
// grammar rule; each builds its Node directly from its already-parsed
// children (len(Node.Children) is each node's arity), which is equivalent
// to the grammar's "post-order node stack" construction without a separate
// mutable stack.
//
// Left-recursive rules (Ta, B, Bt, At, Ap, R, Da) are rewritten as
// iteration, as the grammar excerpt itself directs; Tc's '->'/'|' rule is
// naturally right-nested via recursion.

import (
	"github.com/dewminawijekoon/rpal/internal/rpalerr"
)

// Parse consumes a token stream (as produced by Lex) and returns the AST
// root, or the first parse error encountered.
func Parse(toks []Token) (*Node, error) {
	p := &parser{toks: toks}
	root, err := p.parseE()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != KindEnd {
		return nil, rpalerr.NewParse(p.cur().Line, p.cur().Pos, "program", "unexpected trailing token %q", p.cur().Lexeme)
	}
	return root, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == KindKeyword && t.Lexeme == kw
}

func (p *parser) isOperator(op string) bool {
	t := p.cur()
	return t.Kind == KindOperator && t.Lexeme == op
}

func (p *parser) isPunct(s string) bool {
	t := p.cur()
	return t.Kind == KindPunctuation && t.Lexeme == s
}

func (p *parser) expectKeyword(kw, rule string) error {
	if !p.isKeyword(kw) {
		return rpalerr.NewParse(p.cur().Line, p.cur().Pos, rule, "expected %q, got %q", kw, p.cur().Lexeme)
	}
	p.advance()
	return nil
}

func (p *parser) expectOperator(op, rule string) error {
	if !p.isOperator(op) {
		return rpalerr.NewParse(p.cur().Line, p.cur().Pos, rule, "expected %q, got %q", op, p.cur().Lexeme)
	}
	p.advance()
	return nil
}

func (p *parser) expectPunct(s, rule string) error {
	if !p.isPunct(s) {
		return rpalerr.NewParse(p.cur().Line, p.cur().Pos, rule, "expected %q, got %q", s, p.cur().Lexeme)
	}
	p.advance()
	return nil
}

func (p *parser) expectID(rule string) (string, error) {
	t := p.cur()
	if t.Kind != KindID {
		return "", rpalerr.NewParse(t.Line, t.Pos, rule, "expected identifier, got %q", t.Lexeme)
	}
	p.advance()
	return t.Lexeme, nil
}

// ---- E, Ew, T, Ta, Tc ----

func (p *parser) parseE() (*Node, error) {
	switch {
	case p.isKeyword("let"):
		p.advance()
		d, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in", "let"); err != nil {
			return nil, err
		}
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKLet, Children: []*Node{d, e}}, nil

	case p.isKeyword("fn"):
		p.advance()
		var vbs []*Node
		for startsVb(p.cur()) {
			vb, err := p.parseVb()
			if err != nil {
				return nil, err
			}
			vbs = append(vbs, vb)
		}
		if len(vbs) == 0 {
			return nil, rpalerr.NewParse(p.cur().Line, p.cur().Pos, "fn", "function must bind at least one parameter")
		}
		if err := p.expectOperator(".", "fn"); err != nil {
			return nil, err
		}
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKLambda, Children: append(vbs, e)}, nil

	default:
		return p.parseEw()
	}
}

func (p *parser) parseEw() (*Node, error) {
	t, err := p.parseT()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("where") {
		p.advance()
		dr, err := p.parseDr()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKWhere, Children: []*Node{t, dr}}, nil
	}
	return t, nil
}

func (p *parser) parseT() (*Node, error) {
	first, err := p.parseTa()
	if err != nil {
		return nil, err
	}
	elems := []*Node{first}
	for p.isPunct(",") {
		p.advance()
		next, err := p.parseTa()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if len(elems) == 1 {
		return first, nil
	}
	return &Node{Kind: NKTau, Children: elems}, nil
}

func (p *parser) parseTa() (*Node, error) {
	left, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("aug") {
		p.advance()
		right, err := p.parseTc()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NKAug, Children: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseTc() (*Node, error) {
	cond, err := p.parseB()
	if err != nil {
		return nil, err
	}
	if p.isOperator("->") {
		p.advance()
		thenBr, err := p.parseTc()
		if err != nil {
			return nil, err
		}
		if err := p.expectOperator("|", "->"); err != nil {
			return nil, err
		}
		elseBr, err := p.parseTc()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKArrow, Children: []*Node{cond, thenBr, elseBr}}, nil
	}
	return cond, nil
}

// ---- B, Bt, Bs, Bp ----

func (p *parser) parseB() (*Node, error) {
	left, err := p.parseBt()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseBt()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NKOr, Children: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseBt() (*Node, error) {
	left, err := p.parseBs()
	if err != nil {
		return nil, err
	}
	for p.isOperator("&") {
		p.advance()
		right, err := p.parseBs()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NKAmp, Children: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseBs() (*Node, error) {
	if p.isKeyword("not") {
		p.advance()
		operand, err := p.parseBp()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKNot, Children: []*Node{operand}}, nil
	}
	return p.parseBp()
}

// compareOp returns the normalized comparison operator name for the current
// token (a >/>=/</<=/gr/ge/ls/le/eq/ne token) and whether it is one.
func compareOp(t Token) (string, bool) {
	if t.Kind == KindKeyword {
		switch t.Lexeme {
		case "gr", "ge", "ls", "le", "eq", "ne":
			return t.Lexeme, true
		}
		return "", false
	}
	if t.Kind == KindOperator {
		switch t.Lexeme {
		case ">":
			return "gr", true
		case ">=":
			return "ge", true
		case "<":
			return "ls", true
		case "<=":
			return "le", true
		}
	}
	return "", false
}

func (p *parser) parseBp() (*Node, error) {
	left, err := p.parseA()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOp(p.cur()); ok {
		p.advance()
		right, err := p.parseA()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKCompare, Value: op, Children: []*Node{left, right}}, nil
	}
	return left, nil
}

// ---- A, At, Af, Ap, R, Rn ----

func (p *parser) parseA() (*Node, error) {
	sign := ""
	if p.isOperator("+") || p.isOperator("-") {
		sign = p.cur().Lexeme
		p.advance()
	}

	first, err := p.parseAt()
	if err != nil {
		return nil, err
	}
	if sign == "-" {
		first = &Node{Kind: NKNeg, Children: []*Node{first}}
	}

	left := first
	for p.isOperator("+") || p.isOperator("-") {
		op := p.advance().Lexeme
		right, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		kind := NKPlus
		if op == "-" {
			kind = NKMinus
		}
		left = &Node{Kind: kind, Children: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseAt() (*Node, error) {
	left, err := p.parseAf()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*") || p.isOperator("/") {
		op := p.advance().Lexeme
		right, err := p.parseAf()
		if err != nil {
			return nil, err
		}
		kind := NKMul
		if op == "/" {
			kind = NKDiv
		}
		left = &Node{Kind: kind, Children: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseAf() (*Node, error) {
	left, err := p.parseAp()
	if err != nil {
		return nil, err
	}
	if p.isOperator("**") {
		p.advance()
		right, err := p.parseAf() // right-associative
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKPow, Children: []*Node{left, right}}, nil
	}
	return left, nil
}

func (p *parser) parseAp() (*Node, error) {
	left, err := p.parseR()
	if err != nil {
		return nil, err
	}
	for p.isOperator("@") {
		p.advance()
		name, err := p.expectID("@")
		if err != nil {
			return nil, err
		}
		right, err := p.parseR()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NKAt, Children: []*Node{left, leaf(NKId, name), right}}
	}
	return left, nil
}

func (p *parser) parseR() (*Node, error) {
	left, err := p.parseRn()
	if err != nil {
		return nil, err
	}
	for startsRn(p.cur()) {
		right, err := p.parseRn()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NKGamma, Children: []*Node{left, right}}
	}
	return left, nil
}

func startsRn(t Token) bool {
	switch t.Kind {
	case KindID, KindInt, KindString:
		return true
	case KindKeyword:
		switch t.Lexeme {
		case "true", "false", "nil", "dummy":
			return true
		}
		return false
	case KindPunctuation:
		return t.Lexeme == "("
	default:
		return false
	}
}

func (p *parser) parseRn() (*Node, error) {
	t := p.cur()
	switch {
	case t.Kind == KindID:
		p.advance()
		return leaf(NKId, t.Lexeme), nil
	case t.Kind == KindInt:
		p.advance()
		return leaf(NKInt, t.Lexeme), nil
	case t.Kind == KindString:
		p.advance()
		return leaf(NKStr, t.Lexeme), nil
	case t.Kind == KindKeyword && t.Lexeme == "true":
		p.advance()
		return leaf(NKTrue, ""), nil
	case t.Kind == KindKeyword && t.Lexeme == "false":
		p.advance()
		return leaf(NKFalse, ""), nil
	case t.Kind == KindKeyword && t.Lexeme == "nil":
		p.advance()
		return leaf(NKNil, ""), nil
	case t.Kind == KindKeyword && t.Lexeme == "dummy":
		p.advance()
		return leaf(NKDummy, ""), nil
	case t.Kind == KindPunctuation && t.Lexeme == "(":
		p.advance()
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")", "(E)"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, rpalerr.NewParse(t.Line, t.Pos, "Rn", "unexpected token %q", t.Lexeme)
	}
}

// ---- D, Da, Dr, Db, Vb, Vl ----

func (p *parser) parseD() (*Node, error) {
	da, err := p.parseDa()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("within") {
		p.advance()
		d, err := p.parseD()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKWithin, Children: []*Node{da, d}}, nil
	}
	return da, nil
}

func (p *parser) parseDa() (*Node, error) {
	first, err := p.parseDr()
	if err != nil {
		return nil, err
	}
	elems := []*Node{first}
	for p.isKeyword("and") {
		p.advance()
		next, err := p.parseDr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if len(elems) == 1 {
		return first, nil
	}
	return &Node{Kind: NKAnd, Children: elems}, nil
}

func (p *parser) parseDr() (*Node, error) {
	isRec := false
	if p.isKeyword("rec") {
		p.advance()
		isRec = true
	}
	db, err := p.parseDb()
	if err != nil {
		return nil, err
	}
	if isRec {
		return &Node{Kind: NKRec, Children: []*Node{db}}, nil
	}
	return db, nil
}

func (p *parser) parseDb() (*Node, error) {
	if p.isPunct("(") {
		p.advance()
		d, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")", "(D)"); err != nil {
			return nil, err
		}
		return d, nil
	}

	name, err := p.expectID("Db")
	if err != nil {
		return nil, err
	}

	// Two-token lookahead resolves the Db ambiguity noted in spec.md 9:
	// a comma after the leading id commits to the Vl '=' E form, anything
	// that can start a Vb commits to fcn_form, otherwise it's a bare '='.
	if p.isPunct(",") {
		idents := []*Node{leaf(NKId, name)}
		for p.isPunct(",") {
			p.advance()
			n, err := p.expectID("Vl")
			if err != nil {
				return nil, err
			}
			idents = append(idents, leaf(NKId, n))
		}
		lhs := &Node{Kind: NKComma, Children: idents}
		if err := p.expectOperator("=", "Db"); err != nil {
			return nil, err
		}
		rhs, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NKEq, Children: []*Node{lhs, rhs}}, nil
	}

	if startsVb(p.cur()) {
		var vbs []*Node
		for startsVb(p.cur()) {
			vb, err := p.parseVb()
			if err != nil {
				return nil, err
			}
			vbs = append(vbs, vb)
		}
		if err := p.expectOperator("=", "Db"); err != nil {
			return nil, err
		}
		rhs, err := p.parseE()
		if err != nil {
			return nil, err
		}
		children := append([]*Node{leaf(NKId, name)}, vbs...)
		children = append(children, rhs)
		return &Node{Kind: NKFcnForm, Children: children}, nil
	}

	if err := p.expectOperator("=", "Db"); err != nil {
		return nil, err
	}
	rhs, err := p.parseE()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NKEq, Children: []*Node{leaf(NKId, name), rhs}}, nil
}

func startsVb(t Token) bool {
	return t.Kind == KindID || (t.Kind == KindPunctuation && t.Lexeme == "(")
}

func (p *parser) parseVb() (*Node, error) {
	t := p.cur()
	if t.Kind == KindID {
		p.advance()
		return leaf(NKId, t.Lexeme), nil
	}
	if t.Kind == KindPunctuation && t.Lexeme == "(" {
		p.advance()
		if p.isPunct(")") {
			p.advance()
			return &Node{Kind: NKEmptyParen}, nil
		}
		vl, err := p.parseVl()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")", "Vb"); err != nil {
			return nil, err
		}
		return vl, nil
	}
	return nil, rpalerr.NewParse(t.Line, t.Pos, "Vb", "expected identifier or parenthesized parameter list, got %q", t.Lexeme)
}

func (p *parser) parseVl() (*Node, error) {
	first, err := p.expectID("Vl")
	if err != nil {
		return nil, err
	}
	idents := []*Node{leaf(NKId, first)}
	for p.isPunct(",") {
		p.advance()
		n, err := p.expectID("Vl")
		if err != nil {
			return nil, err
		}
		idents = append(idents, leaf(NKId, n))
	}
	if len(idents) == 1 {
		return idents[0], nil
	}
	return &Node{Kind: NKComma, Children: idents}, nil
}
