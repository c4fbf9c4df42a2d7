package rpallang

// file symbol.go defines the control symbol tagged union of spec.md 3: the
// elements flatten.go emits into δ-blocks and machine.go's step loop pops
// and dispatches on.

// SymKind classifies a single control symbol.
type SymKind int

const (
	SymId      SymKind = iota // Id(name): environment lookup
	SymConst                  // a literal Rand value: Int, Str, Bool, Nil, Dummy, Ystar
	SymGamma                  // application
	SymTau                    // Tau(n): build an n-tuple
	SymBeta                   // conditional dispatch
	SymDelta                  // Delta(i): a reference to control structure i
	SymLambda                 // closure template
	SymEnvMark                // E(i): pop-and-restore-environment marker
	SymUop                    // unary operator
	SymBop                    // binary operator
)

// Symbol is one element of a δ-block or of the machine's live control list.
// Only the fields relevant to Kind are populated.
type Symbol struct {
	Kind SymKind

	Name string // SymId, SymUop, SymBop: identifier or operator name

	Const Value // SymConst

	N int // SymTau: tuple arity. SymDelta: index of the target δ-block.

	// SymLambda
	Param     *Node
	BodyIndex int

	// SymEnvMark carries the environment it marks, set when the machine
	// pushes it (see machine.go); unused by the flattener.
	Env *Env
}
