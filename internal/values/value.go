// Package values defines the runtime value representation the
// evaluator and builtins packages share, grounded on
// original_source/src/defs/values.hpp's Values:: namespace (IntValue,
// CharValue, StringValue, BoolValue, NullValue, ListValue, TupleValue,
// FunctionValue, TypeclassValue).
package values

import (
	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/typesystem"
)

// Value is satisfied by every runtime value kind.
type Value interface {
	Type() typesystem.Type
}

type IntValue struct {
	T    typesystem.Type
	Data int
}

func NewInt(v int) *IntValue { return &IntValue{T: typesystem.NewIntType(), Data: v} }
func (v *IntValue) Type() typesystem.Type { return v.T }

type CharValue struct {
	T    typesystem.Type
	Data rune
}

func NewChar(v rune) *CharValue { return &CharValue{T: typesystem.NewCharType(), Data: v} }
func (v *CharValue) Type() typesystem.Type { return v.T }

type StringValue struct {
	T    typesystem.Type
	Data string
}

func NewString(v string) *StringValue { return &StringValue{T: typesystem.NewStringType(), Data: v} }
func (v *StringValue) Type() typesystem.Type { return v.T }

type BoolValue struct {
	T    typesystem.Type
	Data bool
}

func NewBool(v bool) *BoolValue { return &BoolValue{T: typesystem.NewBoolType(), Data: v} }
func (v *BoolValue) Type() typesystem.Type { return v.T }

type NullValue struct{ T typesystem.Type }

func NewNull() *NullValue { return &NullValue{T: typesystem.NewNullType()} }
func (v *NullValue) Type() typesystem.Type { return v.T }

// ErrorValue is returned in place of a real value after a diagnostic has
// already been recorded, so the caller has something to keep unwinding
// with instead of a nil Value.
type ErrorValue struct{ T typesystem.Type }

func NewError() *ErrorValue { return &ErrorValue{T: typesystem.NewNullType()} }
func (v *ErrorValue) Type() typesystem.Type { return v.T }

type ListValue struct {
	T    typesystem.Type
	Data []Value
}

func NewList(elemType typesystem.Type, data []Value) *ListValue {
	return &ListValue{T: typesystem.NewListType(elemType), Data: data}
}
func (v *ListValue) Type() typesystem.Type { return v.T }

type TupleValue struct {
	T    typesystem.Type
	Data []Value
}

func NewTuple(t typesystem.Type, data []Value) *TupleValue {
	return &TupleValue{T: t, Data: data}
}
func (v *TupleValue) Type() typesystem.Type { return v.T }

// FunctionValue is either a closure over user code or a native builtin,
// distinguished by IsBuiltin/BuiltinName.
type FunctionValue struct {
	T            typesystem.Type
	ParamNames   []string
	Body         ast.Expression
	ClosureEnv   *Environment
	IsBuiltin    bool
	BuiltinName  string
}

func (v *FunctionValue) Type() typesystem.Type { return v.T }

// TypeclassValue holds one constructed record's field bindings.
type TypeclassValue struct {
	T      typesystem.Type
	Fields *Environment
}

func (v *TypeclassValue) Type() typesystem.Type { return v.T }

// Environment is the evaluator-phase flat identifier -> Value map,
// mirroring typesystem.Env's representation (§3.4) but over runtime
// values instead of types.
type Environment struct {
	vars map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

func (e *Environment) Clone() *Environment {
	cp := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Environment{vars: cp}
}

func (e *Environment) AddName(name string, v Value) {
	delete(e.vars, name)
	e.vars[name] = v
}

func (e *Environment) GetName(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Environment) Remove(name string) {
	delete(e.vars, name)
}

func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	return names
}

// Entries returns every binding, used by the evaluator when overlaying a
// closure's captured environment onto a fresh call frame.
func (e *Environment) Entries() map[string]Value {
	return e.vars
}
