package rpallang

// file operators.go implements the Uop/Bop primitive operators of spec.md
// 4.5 rules 8-9: the operators the flattener embeds directly into control
// (as opposed to the named functions bound in E(0), which primitives.go
// handles).

import "github.com/dewminawijekoon/rpal/internal/rpalerr"

func applyUop(op string, v Value) (Value, error) {
	switch op {
	case "neg":
		if v.Kind != KindInt {
			return Value{}, rpalerr.NewRuntime("neg requires an integer, got %s", v.Kind)
		}
		return NewInt(-v.Int), nil
	case "not":
		if v.Kind != KindBool {
			return Value{}, rpalerr.NewRuntime("not requires a truth value, got %s", v.Kind)
		}
		return NewBool(!v.Bool), nil
	default:
		return Value{}, rpalerr.NewRuntime("unknown unary operator %q", op)
	}
}

func applyBop(op string, lhs, rhs Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "**":
		return arith(op, lhs, rhs)
	case "gr", "ge", "ls", "le":
		return strictCompare(op, lhs, rhs)
	case "eq", "ne":
		return equality(op, lhs, rhs)
	case "or":
		return boolOp(op, lhs, rhs)
	case "&":
		return boolOp(op, lhs, rhs)
	case "aug":
		return augment(lhs, rhs), nil
	default:
		return Value{}, rpalerr.NewRuntime("unknown binary operator %q", op)
	}
}

func arith(op string, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindInt || rhs.Kind != KindInt {
		return Value{}, rpalerr.NewRuntime("%s requires two integers", op)
	}
	switch op {
	case "+":
		return NewInt(lhs.Int + rhs.Int), nil
	case "-":
		return NewInt(lhs.Int - rhs.Int), nil
	case "*":
		return NewInt(lhs.Int * rhs.Int), nil
	case "/":
		if rhs.Int == 0 {
			return Value{}, rpalerr.NewRuntime("integer division by zero")
		}
		return NewInt(lhs.Int / rhs.Int), nil
	case "**":
		return NewInt(intPow(lhs.Int, rhs.Int)), nil
	}
	panic("unreachable")
}

func intPow(base, exp int) int {
	if exp < 0 {
		return 0
	}
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func strictCompare(op string, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindInt || rhs.Kind != KindInt {
		return Value{}, rpalerr.NewRuntime("%s is defined only on integers", op)
	}
	switch op {
	case "gr":
		return NewBool(lhs.Int > rhs.Int), nil
	case "ge":
		return NewBool(lhs.Int >= rhs.Int), nil
	case "ls":
		return NewBool(lhs.Int < rhs.Int), nil
	case "le":
		return NewBool(lhs.Int <= rhs.Int), nil
	}
	panic("unreachable")
}

func equality(op string, lhs, rhs Value) (Value, error) {
	var eq bool
	switch {
	case lhs.Kind == KindInt && rhs.Kind == KindInt:
		eq = lhs.Int == rhs.Int
	case lhs.Kind == KindStr && rhs.Kind == KindStr:
		eq = lhs.Str == rhs.Str
	default:
		return Value{}, rpalerr.NewRuntime("%s requires two integers or two strings", op)
	}
	if op == "ne" {
		eq = !eq
	}
	return NewBool(eq), nil
}

func boolOp(op string, lhs, rhs Value) (Value, error) {
	if lhs.Kind != KindBool || rhs.Kind != KindBool {
		return Value{}, rpalerr.NewRuntime("%s requires two truth values", op)
	}
	if op == "or" {
		return NewBool(lhs.Bool || rhs.Bool), nil
	}
	return NewBool(lhs.Bool && rhs.Bool), nil
}

// augment implements tuple construction by repeated `aug`: a non-tuple,
// non-nil left operand is treated as a singleton prefix, so that
// `nil aug a aug b aug c` and `a aug b` both build right-appended tuples.
func augment(lhs, rhs Value) Value {
	var elems []Value
	switch lhs.Kind {
	case KindTup:
		elems = append(elems, lhs.Elems...)
	case KindNil:
		// no elements contributed
	default:
		elems = append(elems, lhs)
	}
	elems = append(elems, rhs)
	return NewTup(elems...)
}
