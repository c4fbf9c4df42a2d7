package rpallang

// file value.go defines the tagged Rand/Rator values the CSE machine pushes
// to its stack, per the Control Structure data model in spec.md 3: value
// leaves (Int, Str, Bool, Nil, Dummy, Tup), runtime closures (Lambda, Eta),
// the fixed-point marker (Ystar), and primitive functions.

import "fmt"

// Kind is the type of a runtime Value.
type Kind int

const (
	KindInt Kind = iota
	KindStr
	KindBool
	KindNil
	KindDummy
	KindTup
	KindLambda
	KindEta
	KindYstar
	KindPrimitive
	// KindEnvMarker is the stack-side sentinel of spec.md 3's E(i): pushed
	// alongside the control-side SymEnvMark so rule 5 can find it just
	// beneath a closure's return value.
	KindEnvMarker
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindStr:
		return "string"
	case KindBool:
		return "truthvalue"
	case KindNil:
		return "nil"
	case KindDummy:
		return "dummy"
	case KindTup:
		return "tuple"
	case KindLambda, KindEta:
		return "function"
	case KindYstar:
		return "Y*"
	case KindPrimitive:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a single RPAL runtime value. Only the fields relevant to v's Kind
// are meaningful; this mirrors the control symbol tagged union in spec.md 3
// rather than using one Go type per kind, since every site that handles a
// Value needs to switch on Kind regardless.
type Value struct {
	Kind Kind

	Int  int
	Str  string
	Bool bool

	// KindTup
	Elems []Value

	// KindLambda / KindEta: a lambda's Index doubles as the body's δ-index,
	// per the flattener's allocation in flatten.go. Param is the single
	// formal-parameter pattern (id leaf, comma- or tau-shaped tuple, or
	// emptyparen) that
	// bindPattern in machine.go matches against the argument.
	Index int
	Param *Node
	Env   *Env

	// KindPrimitive
	PrimName  string
	PrimArity int
	PrimBound []Value
	PrimFn    func(args []Value) (Value, error)

	// KindEnvMarker
	EnvRef *Env
}

func NewInt(n int) Value         { return Value{Kind: KindInt, Int: n} }
func NewStr(s string) Value      { return Value{Kind: KindStr, Str: s} }
func NewBool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func NewNil() Value              { return Value{Kind: KindNil} }
func NewDummy() Value            { return Value{Kind: KindDummy} }
func NewTup(elems ...Value) Value { return Value{Kind: KindTup, Elems: elems} }

// Print renders v in RPAL's canonical printed form, per spec.md 4.5's Print
// primitive and the tuple example in 4.6/8.
func (v Value) Print() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindStr:
		return v.Str
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNil:
		return "nil"
	case KindDummy:
		return "dummy"
	case KindTup:
		if len(v.Elems) == 0 {
			return "nil"
		}
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.Print()
		}
		s := "("
		for i, p := range parts {
			if i > 0 {
				s += ", "
			}
			s += p
		}
		return s + ")"
	case KindLambda, KindEta, KindYstar, KindPrimitive:
		return "[function]"
	default:
		return "?"
	}
}
