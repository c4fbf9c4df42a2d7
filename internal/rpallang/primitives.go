package rpallang

// file primitives.go populates E(0), the primitive environment, per the
// bindings table in spec.md 4.5. Each binding is a KindPrimitive value;
// machine.go's applyPrimitive already implements currying generically by
// partial application, so Conc needs no special case to be a two-argument
// curried function.

import (
	"strconv"

	"github.com/dewminawijekoon/rpal/internal/rpalerr"
)

// flusher is implemented by buffered writers; Print flushes after every
// call per spec.md 5's line-at-a-time output contract.
type flusher interface {
	Flush() error
}

func registerPrimitives(env *Env, m *Machine) {
	bind := func(name string, arity int, fn func(args []Value) (Value, error)) {
		env.Bindings[name] = Value{Kind: KindPrimitive, PrimName: name, PrimArity: arity, PrimFn: fn}
	}

	bind("Print", 1, func(args []Value) (Value, error) {
		if m.out != nil {
			_, _ = m.out.Write([]byte(args[0].Print()))
			if f, ok := m.out.(flusher); ok {
				_ = f.Flush()
			}
		}
		return NewDummy(), nil
	})

	bind("Isinteger", 1, typePredicate(KindInt))
	bind("Isstring", 1, typePredicate(KindStr))
	bind("Istruthvalue", 1, typePredicate(KindBool))
	bind("Isdummy", 1, typePredicate(KindDummy))
	bind("Istuple", 1, typePredicate(KindTup))

	bind("Isfunction", 1, func(args []Value) (Value, error) {
		k := args[0].Kind
		return NewBool(k == KindLambda || k == KindEta || k == KindYstar || k == KindPrimitive), nil
	})

	bind("Order", 1, func(args []Value) (Value, error) {
		v := args[0]
		switch v.Kind {
		case KindNil:
			return NewInt(0), nil
		case KindTup:
			return NewInt(len(v.Elems)), nil
		default:
			return Value{}, rpalerr.NewRuntime("Order requires a tuple, got %s", v.Kind)
		}
	})

	bind("Null", 1, func(args []Value) (Value, error) {
		v := args[0]
		isNull := v.Kind == KindNil || (v.Kind == KindTup && len(v.Elems) == 0)
		return NewBool(isNull), nil
	})

	bind("Stem", 1, func(args []Value) (Value, error) {
		s, err := nonEmptyString("Stem", args[0])
		if err != nil {
			return Value{}, err
		}
		return NewStr(string([]rune(s)[0])), nil
	})

	bind("Stern", 1, func(args []Value) (Value, error) {
		s, err := nonEmptyString("Stern", args[0])
		if err != nil {
			return Value{}, err
		}
		return NewStr(string([]rune(s)[1:])), nil
	})

	bind("Conc", 2, func(args []Value) (Value, error) {
		if args[0].Kind != KindStr || args[1].Kind != KindStr {
			return Value{}, rpalerr.NewRuntime("Conc requires two strings")
		}
		return NewStr(args[0].Str + args[1].Str), nil
	})

	bind("ItoS", 1, func(args []Value) (Value, error) {
		if args[0].Kind != KindInt {
			return Value{}, rpalerr.NewRuntime("ItoS requires an integer")
		}
		return NewStr(strconv.Itoa(args[0].Int)), nil
	})
}

func typePredicate(k Kind) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		return NewBool(args[0].Kind == k), nil
	}
}

func nonEmptyString(name string, v Value) (string, error) {
	if v.Kind != KindStr || v.Str == "" {
		return "", rpalerr.NewRuntime("%s requires a non-empty string", name)
	}
	return v.Str, nil
}
