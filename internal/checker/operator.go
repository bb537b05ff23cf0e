package checker

// Operator classification mirrors the donor's Operator::OperatorTypes
// predicates. bnt desugars unary +/-/! into binary Primitive nodes at
// parse time (§4.1), so the checker never needs a separate unary path.
var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var booleanOps = map[string]bool{"&&": true, "||": true}
var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func isArithmeticOperator(op string) bool { return arithmeticOps[op] }
func isBooleanOperator(op string) bool    { return booleanOps[op] }
func isComparisonOperator(op string) bool { return comparisonOps[op] }
