// Package config holds fixed language and built-in policy constants —
// bnt's CLI surface is small enough that a flag-parsed runtime config
// object would be pure ceremony; these tables are what the parser,
// checker, and evaluator all need to agree on.
package config

// SourceFileExt is the only recognized source file extension.
const SourceFileExt = ".bnt"

// ListBuiltins are the reserved List-operation built-in names.
var ListBuiltins = []string{
	"insert", "remove", "replace", "pushFront", "pushBack",
	"insertInPlace", "removeInPlace", "replaceInPlace",
	"pushFrontInPlace", "pushBackInPlace",
	"front", "back", "head", "tail", "combine", "append", "size",
	"range", "isEmpty", "printList", "reverse", "contains", "find", "equals",
}

// TupleBuiltins are the reserved Tuple-printing built-in names.
var TupleBuiltins = []string{"print2Tuple", "print3Tuple", "print4Tuple"}

// ConversionBuiltins are the reserved primitive-conversion built-in names.
var ConversionBuiltins = []string{"intToChar", "charToInt", "stringToCharList", "charListToString"}

// IOBuiltins are the reserved standard-I/O built-in names.
var IOBuiltins = []string{"printInt", "printBool", "printChar", "printString", "readChar", "readString"}

// ControlBuiltins are the reserved process-control built-in names.
var ControlBuiltins = []string{"halt"}

// AllBuiltinNames is the full reserved built-in catalogue (§6.2).
func AllBuiltinNames() []string {
	var all []string
	all = append(all, ListBuiltins...)
	all = append(all, TupleBuiltins...)
	all = append(all, ConversionBuiltins...)
	all = append(all, IOBuiltins...)
	all = append(all, ControlBuiltins...)
	return all
}

// IsBuiltinName reports whether name is one of the reserved built-ins.
func IsBuiltinName(name string) bool {
	for _, n := range AllBuiltinNames() {
		if n == name {
			return true
		}
	}
	return false
}
