package bplus

import (
	"errors"
	"fmt"
	"strings"
)

// Runtime bundles a keyword table, a global environment with the native
// library installed, and an evaluator. One Runtime serves a whole REPL
// session or script run, so definitions persist across RunSource calls.
type Runtime struct {
	Keywords *KeywordTable
	Env      *Environment
	Ev       *Evaluator
}

// NewRuntime builds a runtime with the core natives and the whole standard
// library registered.
func NewRuntime() *Runtime {
	rt := &Runtime{
		Keywords: NewKeywordTable(),
		Env:      NewEnvironment(),
		Ev:       NewEvaluator(),
	}
	registerCoreBuiltins(rt.Env, rt.Ev)
	rt.LoadAll()
	return rt
}

// stdlibModules maps module names, Bangla aliases included, to their
// registration functions.
var stdlibModules = map[string]func(*Runtime){
	"math":   func(rt *Runtime) { registerMathBuiltins(rt.Env) },
	"string": func(rt *Runtime) { registerStringBuiltins(rt.Env) },
	"file":   func(rt *Runtime) { registerFileBuiltins(rt.Env, rt.Ev) },
	"faile":  func(rt *Runtime) { registerFileBuiltins(rt.Env, rt.Ev) },
	"time":   func(rt *Runtime) { registerTimeBuiltins(rt.Env) },
	"shomoy": func(rt *Runtime) { registerTimeBuiltins(rt.Env) },
	"system": func(rt *Runtime) { registerSystemBuiltins(rt.Env) },
}

// LoadModule registers one stdlib module's natives by name. Loading a module
// twice is harmless.
func (rt *Runtime) LoadModule(name string) error {
	register, ok := stdlibModules[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("ojana module %q", name)
	}
	register(rt)
	return nil
}

// LoadAll registers every stdlib module.
func (rt *Runtime) LoadAll() {
	for _, register := range stdlibModules {
		register(rt)
	}
}

// UseLanguagePack installs a pack's keyword spellings and error templates.
func (rt *Runtime) UseLanguagePack(pack *LanguagePack) {
	pack.Apply(rt.Keywords, rt.Ev.Errors)
}

// RunSource lexes, parses and evaluates src. Parse diagnostics come back as
// a Go error rendered with caret snippets against src; runtime failures come
// back as Error values in the result, matching in-language semantics.
func (rt *Runtime) RunSource(name, src string) (Object, error) {
	l := NewLexerWithKeywords(src, rt.Keywords)
	p := NewParser(l)
	program := p.ParseProgram()

	if perrs := p.ParseErrors(); len(perrs) > 0 {
		var sb strings.Builder
		for i, pe := range perrs {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(WrapErrorWithName(pe, name, src).Error())
		}
		return nil, errors.New(sb.String())
	}

	return rt.Ev.Eval(program, rt.Env), nil
}
