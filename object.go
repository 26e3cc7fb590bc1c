package bplus

import (
	"bytes"
	"fmt"
	"strings"
)

// ObjectType identifies a runtime value kind.
type ObjectType string

const (
	INTEGER_OBJ      ObjectType = "INTEGER"
	BOOLEAN_OBJ      ObjectType = "BOOLEAN"
	STRING_OBJ       ObjectType = "STRING"
	NULL_OBJ         ObjectType = "NULL"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	BREAK_OBJ        ObjectType = "BREAK"
	CONTINUE_OBJ     ObjectType = "CONTINUE"
	ERROR_OBJ        ObjectType = "ERROR"
	FUNCTION_OBJ     ObjectType = "FUNCTION"
	BUILTIN_OBJ      ObjectType = "BUILTIN"
	ARRAY_OBJ        ObjectType = "ARRAY"
)

// Object is the interface every runtime value implements.
type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// BooleanObject renders in the Bangla surface form: Ha for true, Na for
// false.
type BooleanObject struct {
	Value bool
}

func (b *BooleanObject) Type() ObjectType { return BOOLEAN_OBJ }
func (b *BooleanObject) Inspect() string {
	if b.Value {
		return "Ha"
	}
	return "Na"
}

type StringObject struct {
	Value string
}

func (s *StringObject) Type() ObjectType { return STRING_OBJ }
func (s *StringObject) Inspect() string  { return s.Value }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ReturnValue wraps the value of a ferot statement so it can unwind through
// enclosing blocks until the function boundary absorbs it.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal unwinds a thamo statement to the nearest enclosing loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_OBJ }
func (bs *BreakSignal) Inspect() string  { return "thamo" }

// ContinueSignal unwinds a choluk statement to the nearest enclosing loop.
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "choluk" }

// ErrorObject is a recoverable runtime error travelling through the value
// space. It propagates like a return value but never crashes the host.
type ErrorObject struct {
	Message string
}

func (e *ErrorObject) Type() ObjectType { return ERROR_OBJ }
func (e *ErrorObject) Inspect() string  { return "ERROR: " + e.Message }

// Function is a user-defined kaj. Env is the defining environment, so the
// closure keeps its captured bindings alive for as long as the function
// itself is reachable.
type Function struct {
	Parameters []*Identifier
	Body       *BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	out.WriteString("kaj(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")
	return out.String()
}

// BuiltinFunction is the signature native functions implement.
type BuiltinFunction func(args ...Object) Object

type Builtin struct {
	Fn BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function" }

// Array holds ordered values. It has no literal syntax; builtins such as
// split produce it.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out bytes.Buffer
	elems := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elems = append(elems, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elems, ", "))
	out.WriteString("]")
	return out.String()
}

type binding struct {
	value   Object
	mutable bool
}

// Environment is a chained symbol table. Lookups walk outward through the
// outer pointers; definitions always land in the innermost frame.
type Environment struct {
	store map[string]binding
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: map[string]binding{}}
}

// NewEnclosedEnvironment creates a child frame for a block or function call.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get resolves name in this frame or any enclosing one.
func (e *Environment) Get(name string) (Object, bool) {
	b, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return b.value, ok
}

// Define binds name in the current frame. dhoro bindings are mutable,
// dhrubok bindings are not; redefinition in the same frame shadows.
func (e *Environment) Define(name string, value Object, mutable bool) Object {
	e.store[name] = binding{value: value, mutable: mutable}
	return value
}

// Assign rebinds an existing name in whichever frame holds it. It fails on
// unknown names and on dhrubok bindings.
func (e *Environment) Assign(name string, value Object) (Object, bool) {
	if b, ok := e.store[name]; ok {
		if !b.mutable {
			return nil, false
		}
		e.store[name] = binding{value: value, mutable: true}
		return value, true
	}
	if e.outer != nil {
		return e.outer.Assign(name, value)
	}
	return nil, false
}

// Has reports whether name resolves anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// IsMutable reports whether the closest binding of name can be reassigned.
func (e *Environment) IsMutable(name string) (bool, bool) {
	if b, ok := e.store[name]; ok {
		return b.mutable, true
	}
	if e.outer != nil {
		return e.outer.IsMutable(name)
	}
	return false, false
}

// RegisterNative installs a Go function as a callable binding. Natives are
// installed immutable so scripts cannot clobber them.
func RegisterNative(env *Environment, name string, fn BuiltinFunction) {
	env.Define(name, &Builtin{Fn: fn}, false)
}
