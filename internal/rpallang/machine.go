package rpallang

// file machine.go implements the Control-Stack-Environment machine of
// spec.md 4.5: a pop-dispatch-push loop over the δ-blocks flatten.go
// produces.
//
// Representation note: the data model describes control and the value
// stack as lists whose "right end is top". This implementation realizes
// both as plain Go slices used as LIFO stacks (append to push, slice off
// the last element to pop). A δ-block is stored by the flattener in the
// order its symbols are meant to execute; loadBlock pushes a block's
// symbols in reverse so the block's first symbol ends up on top and is
// the next one popped. This is the standard technique for splicing an
// ordered instruction sequence into a stack-based control list and is the
// only sound reading of "prepend E(k) marker and the body δ onto control"
// in rule 4 below: the marker is pushed first (so it is reached only once
// every body symbol above it is consumed), then the body.

import (
	"io"

	"github.com/dewminawijekoon/rpal/internal/rpalerr"
)

// Machine is one CSE machine run over a fixed set of δ-blocks.
type Machine struct {
	blocks [][]Symbol

	control []Symbol
	stack   []Value
	envs    []*Env
	curEnv  *Env

	nextEnvIndex int
	out          io.Writer
}

// NewMachine builds a machine whose initial state is δ-block 0 running
// under the primitive environment E(0), per spec.md 4.5.
func NewMachine(blocks [][]Symbol) *Machine {
	root := NewEnv(0, nil)

	m := &Machine{
		blocks:       blocks,
		curEnv:       root,
		envs:         []*Env{root},
		nextEnvIndex: 1,
	}
	registerPrimitives(root, m)
	m.stack = append(m.stack, Value{Kind: KindEnvMarker, EnvRef: root})
	m.control = append(m.control, Symbol{Kind: SymEnvMark, Env: root})
	m.loadBlock(0)
	return m
}

// Run drives the machine to completion, writing Print output to out, and
// returns the program's final value or the first runtime error.
func (m *Machine) Run(out io.Writer) (Value, error) {
	m.out = out
	for len(m.control) > 0 {
		sym := m.popControl()
		if err := m.step(sym); err != nil {
			return Value{}, err
		}
	}
	if len(m.stack) == 0 {
		return Value{}, rpalerr.NewRuntime("machine halted with an empty stack")
	}
	return m.stack[len(m.stack)-1], nil
}

func (m *Machine) loadBlock(idx int) {
	block := m.blocks[idx]
	for i := len(block) - 1; i >= 0; i-- {
		m.control = append(m.control, block[i])
	}
}

func (m *Machine) popControl() Symbol {
	s := m.control[len(m.control)-1]
	m.control = m.control[:len(m.control)-1]
	return s
}

func (m *Machine) pushStack(v Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) popStack() (Value, error) {
	if len(m.stack) == 0 {
		return Value{}, rpalerr.NewRuntime("popped an empty stack")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *Machine) step(sym Symbol) error {
	switch sym.Kind {
	case SymConst:
		m.pushStack(sym.Const)
		return nil

	case SymId:
		v, err := m.curEnv.Lookup(sym.Name)
		if err != nil {
			return err
		}
		m.pushStack(v)
		return nil

	case SymLambda:
		m.pushStack(Value{Kind: KindLambda, Index: sym.BodyIndex, Param: sym.Param, Env: m.curEnv})
		return nil

	case SymGamma:
		return m.stepGamma()

	case SymEnvMark:
		return m.stepEnvMark(sym)

	case SymBeta:
		return m.stepBeta()

	case SymTau:
		return m.stepTau(sym.N)

	case SymUop:
		v, err := m.popStack()
		if err != nil {
			return err
		}
		result, err := applyUop(sym.Name, v)
		if err != nil {
			return err
		}
		m.pushStack(result)
		return nil

	case SymBop:
		rhs, err := m.popStack()
		if err != nil {
			return err
		}
		lhs, err := m.popStack()
		if err != nil {
			return err
		}
		result, err := applyBop(sym.Name, lhs, rhs)
		if err != nil {
			return err
		}
		m.pushStack(result)
		return nil

	default:
		return rpalerr.NewRuntime("unreachable control symbol kind %d", sym.Kind)
	}
}

func (m *Machine) stepGamma() error {
	rator, err := m.popStack()
	if err != nil {
		return err
	}
	rand, err := m.popStack()
	if err != nil {
		return err
	}

	switch rator.Kind {
	case KindLambda:
		idx := m.nextEnvIndex
		m.nextEnvIndex++
		env := NewEnv(idx, rator.Env)
		if err := bindPattern(rator.Param, rand, env); err != nil {
			return err
		}
		m.envs = append(m.envs, env)
		m.curEnv = env
		m.pushStack(Value{Kind: KindEnvMarker, EnvRef: env})
		m.control = append(m.control, Symbol{Kind: SymEnvMark, Env: env})
		m.loadBlock(rator.Index)
		return nil

	case KindEta:
		// Unfold Y*'s fixed point lazily: `Eta A` evaluates as `f (Eta) A`,
		// per spec.md 4.5 rule 4 and 9's Y* design note.
		f := Value{Kind: KindLambda, Index: rator.Index, Param: rator.Param, Env: rator.Env}
		m.pushStack(rand)
		m.pushStack(rator)
		m.pushStack(f)
		m.control = append(m.control, Symbol{Kind: SymGamma}, Symbol{Kind: SymGamma})
		return nil

	case KindYstar:
		if rand.Kind != KindLambda {
			return rpalerr.NewRuntime("Y* requires a function argument")
		}
		m.pushStack(Value{Kind: KindEta, Index: rand.Index, Param: rand.Param, Env: rand.Env})
		return nil

	case KindTup:
		if rand.Kind != KindInt {
			return rpalerr.NewRuntime("tuple selection requires an integer index")
		}
		if rand.Int < 1 || rand.Int > len(rator.Elems) {
			return rpalerr.NewRuntime("tuple index %d out of range (arity %d)", rand.Int, len(rator.Elems))
		}
		m.pushStack(rator.Elems[rand.Int-1])
		return nil

	case KindPrimitive:
		return m.applyPrimitive(rator, rand)

	default:
		return rpalerr.NewRuntime("attempt to apply a non-callable value")
	}
}

func (m *Machine) applyPrimitive(prim, arg Value) error {
	bound := append(append([]Value{}, prim.PrimBound...), arg)
	if len(bound) < prim.PrimArity {
		m.pushStack(Value{Kind: KindPrimitive, PrimName: prim.PrimName, PrimArity: prim.PrimArity, PrimBound: bound, PrimFn: prim.PrimFn})
		return nil
	}
	result, err := prim.PrimFn(bound)
	if err != nil {
		return err
	}
	m.pushStack(result)
	return nil
}

func (m *Machine) stepEnvMark(sym Symbol) error {
	v, err := m.popStack()
	if err != nil {
		return err
	}
	marker, err := m.popStack()
	if err != nil {
		return err
	}
	if marker.Kind != KindEnvMarker || marker.EnvRef != sym.Env {
		return rpalerr.NewRuntime("environment marker mismatch")
	}
	marker.EnvRef.Removed = true
	for i := len(m.envs) - 1; i >= 0; i-- {
		if !m.envs[i].Removed {
			m.curEnv = m.envs[i]
			break
		}
	}
	m.pushStack(v)
	return nil
}

func (m *Machine) stepBeta() error {
	cond, err := m.popStack()
	if err != nil {
		return err
	}
	if cond.Kind != KindBool {
		return rpalerr.NewRuntime("conditional requires a truth value")
	}
	if len(m.control) < 2 {
		return rpalerr.NewRuntime("malformed conditional control structure")
	}
	thenDelta := m.popControl()
	elseDelta := m.popControl()
	if thenDelta.Kind != SymDelta || elseDelta.Kind != SymDelta {
		return rpalerr.NewRuntime("malformed conditional control structure")
	}
	if cond.Bool {
		m.loadBlock(thenDelta.N)
	} else {
		m.loadBlock(elseDelta.N)
	}
	return nil
}

func (m *Machine) stepTau(n int) error {
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := m.popStack()
		if err != nil {
			return err
		}
		elems[n-1-i] = v
	}
	m.pushStack(NewTup(elems...))
	return nil
}

// bindPattern matches a formal-parameter pattern (an id leaf, a comma- or
// tau-shaped tuple pattern, or an emptyparen) against an argument value and
// installs the resulting bindings in env. This generalizes spec.md 4.5
// rule 4's "single param or tuple binding (x1..xn)" to arbitrary pattern
// nesting, which is what the standardizer's `and` rewrite can produce (a
// tau of patterns on one side of `=`).
func bindPattern(pattern *Node, arg Value, env *Env) error {
	switch pattern.Kind {
	case NKId:
		env.Bindings[pattern.Value] = arg
		return nil
	case NKEmptyParen:
		return nil
	case NKComma, NKTau:
		if arg.Kind != KindTup || len(arg.Elems) != len(pattern.Children) {
			return rpalerr.NewRuntime("tuple pattern of arity %d applied to a non-matching argument", len(pattern.Children))
		}
		for i, sub := range pattern.Children {
			if err := bindPattern(sub, arg.Elems[i], env); err != nil {
				return err
			}
		}
		return nil
	default:
		return rpalerr.NewRuntime("malformed formal parameter pattern")
	}
}
