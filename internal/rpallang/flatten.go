package rpallang

// file flatten.go walks a standard tree and emits an indexed list of
// δ-blocks (control structures) per spec.md 4.4. Each block is a []Symbol
// stored in the order its symbols are meant to execute; machine.go's
// control stack pushes a block in reverse so that order is preserved when
// popping from the stack's top (see the loadBlock comment in machine.go).
//
// Two rules need special emission order beyond the generic "children then
// own kind" pattern:
//
//   - gamma's children are [rator, rand], but spec.md 4.5 rule 4 pops rator
//     before rand, so rator must end up on top of the stack: rand is
//     flattened first (deeper), then rator (on top).
//   - '->' allocates two fresh blocks for its branches and emits
//     Beta/Delta/Delta after its condition, so Beta can inspect the two
//     pending Delta references directly per spec.md 4.5 rule 6.
//
// Every other binary/unary ST node flattens its children in their natural
// left-to-right order, since spec.md 4.5 rule 9's "pop rhs then lhs" already
// matches rhs ending up on top when lhs is pushed first.

import (
	"strconv"

	"github.com/dewminawijekoon/rpal/internal/rpalerr"
)

// Flatten walks a standardized tree and returns its δ-blocks; block 0 is
// the program entry point.
func Flatten(root *Node) ([][]Symbol, error) {
	f := &flattener{blocks: [][]Symbol{{}}}
	if err := f.walk(root, 0); err != nil {
		return nil, err
	}
	return f.blocks, nil
}

type flattener struct {
	blocks [][]Symbol
}

func (f *flattener) alloc() int {
	f.blocks = append(f.blocks, nil)
	return len(f.blocks) - 1
}

func (f *flattener) emit(idx int, s Symbol) {
	f.blocks[idx] = append(f.blocks[idx], s)
}

func (f *flattener) walk(n *Node, idx int) error {
	switch n.Kind {
	case NKLambda:
		param, body := n.Children[0], n.Children[1]
		bodyIdx := f.alloc()
		if err := f.walk(body, bodyIdx); err != nil {
			return err
		}
		f.emit(idx, Symbol{Kind: SymLambda, Param: param, BodyIndex: bodyIdx})
		return nil

	case NKArrow:
		cond, thenBr, elseBr := n.Children[0], n.Children[1], n.Children[2]
		if err := f.walk(cond, idx); err != nil {
			return err
		}
		thenIdx := f.alloc()
		if err := f.walk(thenBr, thenIdx); err != nil {
			return err
		}
		elseIdx := f.alloc()
		if err := f.walk(elseBr, elseIdx); err != nil {
			return err
		}
		f.emit(idx, Symbol{Kind: SymBeta})
		f.emit(idx, Symbol{Kind: SymDelta, N: thenIdx})
		f.emit(idx, Symbol{Kind: SymDelta, N: elseIdx})
		return nil

	case NKTau:
		for _, c := range n.Children {
			if err := f.walk(c, idx); err != nil {
				return err
			}
		}
		f.emit(idx, Symbol{Kind: SymTau, N: len(n.Children)})
		return nil

	case NKGamma:
		rator, rand := n.Children[0], n.Children[1]
		if err := f.walk(rand, idx); err != nil {
			return err
		}
		if err := f.walk(rator, idx); err != nil {
			return err
		}
		f.emit(idx, Symbol{Kind: SymGamma})
		return nil

	case NKPlus, NKMinus, NKMul, NKDiv, NKPow, NKOr, NKAmp, NKAug:
		return f.bop(n, idx, n.Kind.String())

	case NKCompare:
		return f.bop(n, idx, n.Value)

	case NKNeg:
		return f.uop(n, idx, "neg")

	case NKNot:
		return f.uop(n, idx, "not")

	case NKId:
		f.emit(idx, Symbol{Kind: SymId, Name: n.Value})
		return nil

	case NKInt:
		iv, err := strconv.Atoi(n.Value)
		if err != nil {
			return rpalerr.NewStandardize("malformed integer literal %q", n.Value)
		}
		f.emit(idx, Symbol{Kind: SymConst, Const: NewInt(iv)})
		return nil

	case NKStr:
		f.emit(idx, Symbol{Kind: SymConst, Const: NewStr(unquoteRPALString(n.Value))})
		return nil

	case NKTrue:
		f.emit(idx, Symbol{Kind: SymConst, Const: NewBool(true)})
		return nil

	case NKFalse:
		f.emit(idx, Symbol{Kind: SymConst, Const: NewBool(false)})
		return nil

	case NKNil:
		f.emit(idx, Symbol{Kind: SymConst, Const: NewNil()})
		return nil

	case NKDummy:
		f.emit(idx, Symbol{Kind: SymConst, Const: NewDummy()})
		return nil

	case NKYstar:
		f.emit(idx, Symbol{Kind: SymConst, Const: Value{Kind: KindYstar}})
		return nil

	default:
		return rpalerr.NewStandardize("flattener: unexpected standard tree node %s", n.Kind)
	}
}

func (f *flattener) bop(n *Node, idx int, op string) error {
	lhs, rhs := n.Children[0], n.Children[1]
	if err := f.walk(lhs, idx); err != nil {
		return err
	}
	if err := f.walk(rhs, idx); err != nil {
		return err
	}
	f.emit(idx, Symbol{Kind: SymBop, Name: op})
	return nil
}

func (f *flattener) uop(n *Node, idx int, op string) error {
	if err := f.walk(n.Children[0], idx); err != nil {
		return err
	}
	f.emit(idx, Symbol{Kind: SymUop, Name: op})
	return nil
}

// unquoteRPALString strips a string literal's surrounding quotes and
// resolves its \' escape, per spec.md 4.1 rule 3.
func unquoteRPALString(lexeme string) string {
	inner := lexeme[1 : len(lexeme)-1]
	out := make([]byte, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && inner[i+1] == '\'' {
			out = append(out, '\'')
			i++
			continue
		}
		out = append(out, inner[i])
	}
	return string(out)
}
