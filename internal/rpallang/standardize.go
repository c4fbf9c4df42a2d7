package rpallang

// file standardize.go rewrites an AST into the standard tree (ST) per the
// rule table in spec.md 4.3: a post-order, bottom-up traversal in which
// every rule sees its children already standardized. The rewritten tree is
// restricted to the kind set spec.md 3 names for the Standard Tree Node --
// let, where, fcn_form, multi-param lambda, within, and, rec, and @ are all
// rewritten away here.

import "github.com/dewminawijekoon/rpal/internal/rpalerr"

// Standardize rewrites an AST root (as produced by Parse) into its standard
// tree. It returns a StandardizeError only if an internal invariant the
// parser is supposed to guarantee was violated -- per spec.md 7, this
// should be unreachable for any AST Parse can produce.
func Standardize(root *Node) (*Node, error) {
	return standardize(root)
}

func standardize(n *Node) (*Node, error) {
	children := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		sc, err := standardize(c)
		if err != nil {
			return nil, err
		}
		children[i] = sc
	}

	switch n.Kind {
	case NKLet:
		d, e := children[0], children[1]
		x, p, err := asEq(d, "let")
		if err != nil {
			return nil, err
		}
		return gammaN(lambdaN(x, e), p), nil

	case NKWhere:
		e, d := children[0], children[1]
		x, p, err := asEq(d, "where")
		if err != nil {
			return nil, err
		}
		return gammaN(lambdaN(x, e), p), nil

	case NKFcnForm:
		// children = [F, V1..Vn, E]
		f := children[0]
		e := children[len(children)-1]
		params := children[1 : len(children)-1]
		body := curryLambda(params, e)
		return eqN(f, body), nil

	case NKLambda:
		// children = [V1..Vn, E] (n >= 1, from 'fn' Vb+ '.' E)
		e := children[len(children)-1]
		params := children[:len(children)-1]
		return curryLambda(params, e), nil

	case NKWithin:
		da, d := children[0], children[1]
		x1, e1, err := asEq(da, "within")
		if err != nil {
			return nil, err
		}
		x2, e2, err := asEq(d, "within")
		if err != nil {
			return nil, err
		}
		return eqN(x2, gammaN(lambdaN(x1, e2), e1)), nil

	case NKAt:
		// children = [E1, N, E2]
		e1, name, e2 := children[0], children[1], children[2]
		return gammaN(gammaN(name, e1), e2), nil

	case NKAnd:
		xs := make([]*Node, len(children))
		es := make([]*Node, len(children))
		for i, c := range children {
			x, e, err := asEq(c, "and")
			if err != nil {
				return nil, err
			}
			xs[i] = x
			es[i] = e
		}
		return eqN(tauN(xs...), tauN(es...)), nil

	case NKRec:
		x, e, err := asEq(children[0], "rec")
		if err != nil {
			return nil, err
		}
		return eqN(x, gammaN(&Node{Kind: NKYstar}, lambdaN(x, e))), nil

	default:
		return &Node{Kind: n.Kind, Value: n.Value, Children: children}, nil
	}
}

// curryLambda builds a right-nested chain of single-parameter lambdas
// binding params in order around body, per the fcn_form/lambda row of
// spec.md 4.3's rewrite table.
func curryLambda(params []*Node, body *Node) *Node {
	result := body
	for i := len(params) - 1; i >= 0; i-- {
		result = lambdaN(params[i], result)
	}
	return result
}

func asEq(n *Node, rule string) (*Node, *Node, error) {
	if n.Kind != NKEq || len(n.Children) != 2 {
		return nil, nil, rpalerr.NewStandardize("%s: expected a definition of form '=(X,E)', got %s", rule, n.Kind)
	}
	return n.Children[0], n.Children[1], nil
}

func gammaN(rator, rand *Node) *Node {
	return &Node{Kind: NKGamma, Children: []*Node{rator, rand}}
}

func lambdaN(param, body *Node) *Node {
	return &Node{Kind: NKLambda, Children: []*Node{param, body}}
}

func eqN(lhs, rhs *Node) *Node {
	return &Node{Kind: NKEq, Children: []*Node{lhs, rhs}}
}

func tauN(elems ...*Node) *Node {
	return &Node{Kind: NKTau, Children: elems}
}
