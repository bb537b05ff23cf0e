package evaluator

import (
	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/values"
)

// doOperation mirrors Interpreter::doOperation's dispatch table. Its
// arithmetic branches are hardcoded to IntValue in the donor regardless
// of the template parameter used to invoke it — there is no string `+`.
// Comparison dispatches generically by operand kind (Int, Char, String,
// Bool), matching the donor's GRT/LST/EQ/NOTEQ/GRTEQ/LSTEQ branches,
// which do use the template type.
func (e *Evaluator) doOperation(tok token.Token, op string, left, right values.Value) (values.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return e.doArithmetic(tok, op, left, right)
	case "&&", "||":
		return e.doBoolean(tok, op, left, right)
	case "==", "!=", "<", "<=", ">", ">=":
		return e.doComparison(tok, op, left, right)
	default:
		return e.fatal(tok, "Error: Unknown operator '%s'", op)
	}
}

func (e *Evaluator) doArithmetic(tok token.Token, op string, left, right values.Value) (values.Value, error) {
	l, lok := left.(*values.IntValue)
	r, rok := right.(*values.IntValue)
	if !lok || !rok {
		return e.fatal(tok, "Error: Arithmetic operator '%s' requires integer operands", op)
	}
	switch op {
	case "+":
		return values.NewInt(l.Data + r.Data), nil
	case "-":
		return values.NewInt(l.Data - r.Data), nil
	case "*":
		return values.NewInt(l.Data * r.Data), nil
	case "/":
		if r.Data == 0 {
			return e.fatal(tok, "Error: Division by zero!")
		}
		return values.NewInt(l.Data / r.Data), nil
	case "%":
		// The donor only guards DIV against zero, leaving MOD to divide
		// by zero with undefined behavior; §4.3/§4.4 require this port
		// to guard both alike.
		if r.Data == 0 {
			return e.fatal(tok, "Error: Modulo by zero!")
		}
		return values.NewInt(l.Data % r.Data), nil
	default:
		return e.fatal(tok, "Error: Unknown arithmetic operator '%s'", op)
	}
}

func (e *Evaluator) doBoolean(tok token.Token, op string, left, right values.Value) (values.Value, error) {
	l, lok := left.(*values.BoolValue)
	r, rok := right.(*values.BoolValue)
	if !lok || !rok {
		return e.fatal(tok, "Error: Boolean operator '%s' requires boolean operands", op)
	}
	switch op {
	case "&&":
		return values.NewBool(l.Data && r.Data), nil
	case "||":
		return values.NewBool(l.Data || r.Data), nil
	default:
		return e.fatal(tok, "Error: Unknown boolean operator '%s'", op)
	}
}

func (e *Evaluator) doComparison(tok token.Token, op string, left, right values.Value) (values.Value, error) {
	switch op {
	case "==":
		eq, err := e.valuesEqual(tok, left, right)
		if err != nil {
			return values.NewError(), err
		}
		return values.NewBool(eq), nil
	case "!=":
		eq, err := e.valuesEqual(tok, left, right)
		if err != nil {
			return values.NewError(), err
		}
		return values.NewBool(!eq), nil
	}

	order, err := e.compareOrder(tok, left, right)
	if err != nil {
		return values.NewError(), err
	}
	switch op {
	case "<":
		return values.NewBool(order < 0), nil
	case "<=":
		return values.NewBool(order <= 0), nil
	case ">":
		return values.NewBool(order > 0), nil
	case ">=":
		return values.NewBool(order >= 0), nil
	default:
		return e.fatal(tok, "Error: Unknown comparison operator '%s'", op)
	}
}

// valuesEqual compares two primitive runtime values for equality,
// grounded on the same primitive-kind set the checker admits to
// comparison operators (Int, Char, String, Bool).
func (e *Evaluator) valuesEqual(tok token.Token, left, right values.Value) (bool, error) {
	switch l := left.(type) {
	case *values.IntValue:
		r, ok := right.(*values.IntValue)
		return ok && l.Data == r.Data, nil
	case *values.CharValue:
		r, ok := right.(*values.CharValue)
		return ok && l.Data == r.Data, nil
	case *values.StringValue:
		r, ok := right.(*values.StringValue)
		return ok && l.Data == r.Data, nil
	case *values.BoolValue:
		r, ok := right.(*values.BoolValue)
		return ok && l.Data == r.Data, nil
	case *values.NullValue:
		_, ok := right.(*values.NullValue)
		return ok, nil
	default:
		_, err := e.fatal(tok, "Error: Binary operators can only be used on primitive types")
		return false, err
	}
}

// compareOrder returns -1/0/1 for ordering operators. Int and Char carry
// a natural numeric order; String ordering falls back to Go's native
// lexicographic "<" on strings, equivalent to the donor's byte-wise
// std::string comparison for the ASCII-range programs bnt targets.
func (e *Evaluator) compareOrder(tok token.Token, left, right values.Value) (int, error) {
	switch l := left.(type) {
	case *values.IntValue:
		r, ok := right.(*values.IntValue)
		if !ok {
			break
		}
		return signOf(l.Data - r.Data), nil
	case *values.CharValue:
		r, ok := right.(*values.CharValue)
		if !ok {
			break
		}
		return signOf(int(l.Data) - int(r.Data)), nil
	case *values.StringValue:
		r, ok := right.(*values.StringValue)
		if !ok {
			break
		}
		switch {
		case l.Data < r.Data:
			return -1, nil
		case l.Data > r.Data:
			return 1, nil
		default:
			return 0, nil
		}
	}
	_, err := e.fatal(tok, "Error: Ordering operators require comparable primitive operands")
	return 0, err
}

func signOf(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
