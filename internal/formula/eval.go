package formula

// Resolver supplies the value of a named variable during evaluation. It is
// the only channel through which a formula can observe the outside world;
// evaluation itself never mutates anything.
type Resolver interface {
	Resolve(name string) (Value, error)
}

func (n *identNode) eval(r Resolver) (Value, error) {
	return r.Resolve(n.name)
}

func (n *numberNode) eval(r Resolver) (Value, error) {
	return Number(n.val), nil
}

func (n *stringNode) eval(r Resolver) (Value, error) {
	return String(n.val), nil
}

func (n *unaryNode) eval(r Resolver) (Value, error) {
	v, err := n.operand.eval(r)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "-":
		f, err := v.AsNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(-f), nil
	default: // not
		return Bool(!v.Truthy()), nil
	}
}

func (n *binaryNode) eval(r Resolver) (Value, error) {
	// and/or short-circuit before the right side is resolved
	switch n.op {
	case "and":
		left, err := n.left.eval(r)
		if err != nil {
			return Value{}, err
		}
		if !left.Truthy() {
			return Bool(false), nil
		}
		right, err := n.right.eval(r)
		if err != nil {
			return Value{}, err
		}
		return Bool(right.Truthy()), nil
	case "or":
		left, err := n.left.eval(r)
		if err != nil {
			return Value{}, err
		}
		if left.Truthy() {
			return Bool(true), nil
		}
		right, err := n.right.eval(r)
		if err != nil {
			return Value{}, err
		}
		return Bool(right.Truthy()), nil
	}

	left, err := n.left.eval(r)
	if err != nil {
		return Value{}, err
	}
	right, err := n.right.eval(r)
	if err != nil {
		return Value{}, err
	}

	switch n.op {
	case "+", "-", "*", "/":
		return evalArithmetic(n.op, left, right)
	case "==", "!=":
		return evalEquality(n.op, left, right)
	case "<", "<=", ">", ">=":
		return evalOrdering(n.op, left, right)
	case "in":
		return evalMembership(left, right)
	default:
		return Value{}, &TypeError{Want: "operator", Got: n.op, Value: n.op}
	}
}

// evalArithmetic follows IEEE float semantics throughout: NaN propagates and
// 0/0 yields NaN instead of raising.
func evalArithmetic(op string, left, right Value) (Value, error) {
	a, err := left.AsNumber()
	if err != nil {
		return Value{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "+":
		return Number(a + b), nil
	case "-":
		return Number(a - b), nil
	case "*":
		return Number(a * b), nil
	default:
		return Number(a / b), nil
	}
}

func evalEquality(op string, left, right Value) (Value, error) {
	var eq bool
	switch {
	case left.Kind == KindString && right.Kind == KindString:
		eq = left.Str == right.Str
	case left.Kind != KindString && right.Kind != KindString &&
		left.Kind != KindList && right.Kind != KindList:
		eq = left.Num == right.Num // NaN compares unequal to everything
	default:
		return Value{}, &TypeError{Want: left.Kind.String(),
			Got: right.Kind.String(), Value: right.describe()}
	}
	if op == "!=" {
		eq = !eq
	}
	return Bool(eq), nil
}

func evalOrdering(op string, left, right Value) (Value, error) {
	a, err := left.AsNumber()
	if err != nil {
		return Value{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return Value{}, err
	}
	var res bool
	switch op {
	case "<":
		res = a < b
	case "<=":
		res = a <= b
	case ">":
		res = a > b
	default:
		res = a >= b
	}
	return Bool(res), nil
}

func evalMembership(left, right Value) (Value, error) {
	if left.Kind != KindString {
		return Value{}, &TypeError{Want: "string", Got: left.Kind.String(),
			Value: left.describe()}
	}
	if right.Kind != KindList {
		return Value{}, &TypeError{Want: "list", Got: right.Kind.String(),
			Value: right.describe()}
	}
	for _, s := range right.List {
		if s == left.Str {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}
