package bplus

import (
	"io"
	"testing"
)

func bareRuntime() *Runtime {
	rt := &Runtime{
		Keywords: NewKeywordTable(),
		Env:      NewEnvironment(),
		Ev:       NewEvaluator(),
	}
	rt.Ev.Out = io.Discard
	return rt
}

func TestLoadModuleByName(t *testing.T) {
	rt := bareRuntime()
	if rt.Env.Has("sqrt") {
		t.Fatal("math module must not preload")
	}
	if err := rt.LoadModule("math"); err != nil {
		t.Fatal(err)
	}
	if !rt.Env.Has("sqrt") {
		t.Fatal("math module did not register sqrt")
	}
}

func TestLoadModuleBanglaAliases(t *testing.T) {
	rt := bareRuntime()
	if err := rt.LoadModule("shomoy"); err != nil {
		t.Fatal(err)
	}
	if !rt.Env.Has("timestamp") {
		t.Fatal("shomoy alias did not load the time module")
	}

	if err := rt.LoadModule("faile"); err != nil {
		t.Fatal(err)
	}
	if !rt.Env.Has("readkoro") {
		t.Fatal("faile alias did not load the file module")
	}
}

func TestLoadUnknownModule(t *testing.T) {
	rt := bareRuntime()
	if err := rt.LoadModule("jadu"); err == nil {
		t.Fatal("unknown module must be an error")
	}
}

func TestNewRuntimeLoadsEverything(t *testing.T) {
	rt := NewRuntime()
	for _, name := range []string{
		"dekhao", "input", "sqrt", "lambai", "readkoro", "shomoy", "platform",
	} {
		if !rt.Env.Has(name) {
			t.Fatalf("builtin %q missing after NewRuntime", name)
		}
	}
}

func TestRunSourcePersistsBindings(t *testing.T) {
	rt := bareRuntime()
	registerCoreBuiltins(rt.Env, rt.Ev)

	if _, err := rt.RunSource("repl", "dhoro x = 40;"); err != nil {
		t.Fatal(err)
	}
	result, err := rt.RunSource("repl", "x + 2")
	if err != nil {
		t.Fatal(err)
	}
	testInt(t, result, 42)
}
