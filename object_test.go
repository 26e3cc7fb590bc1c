package bplus

import "testing"

func TestEnvironmentChainLookup(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1}, true)
	inner := NewEnclosedEnvironment(outer)

	if v, ok := inner.Get("x"); !ok || v.(*Integer).Value != 1 {
		t.Fatalf("inner lookup of outer binding failed: %v %v", v, ok)
	}
	if _, ok := inner.Get("nai"); ok {
		t.Fatal("unknown name should not resolve")
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1}, true)
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", &Integer{Value: 2}, true)

	if v, _ := inner.Get("x"); v.(*Integer).Value != 2 {
		t.Fatal("inner definition should shadow")
	}
	if v, _ := outer.Get("x"); v.(*Integer).Value != 1 {
		t.Fatal("outer binding must be untouched by shadowing")
	}
}

func TestEnvironmentAssignWalksOutward(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1}, true)
	inner := NewEnclosedEnvironment(outer)

	if _, ok := inner.Assign("x", &Integer{Value: 9}); !ok {
		t.Fatal("assignment through the chain failed")
	}
	if v, _ := outer.Get("x"); v.(*Integer).Value != 9 {
		t.Fatal("assignment did not reach the defining frame")
	}

	if _, ok := inner.Assign("nai", &Integer{Value: 0}); ok {
		t.Fatal("assignment to an unknown name must fail")
	}
}

func TestEnvironmentImmutableBindings(t *testing.T) {
	env := NewEnvironment()
	env.Define("pi", &Integer{Value: 3}, false)

	if _, ok := env.Assign("pi", &Integer{Value: 4}); ok {
		t.Fatal("immutable binding must reject assignment")
	}
	if mutable, found := env.IsMutable("pi"); !found || mutable {
		t.Fatalf("IsMutable = %v, %v", mutable, found)
	}
	// Redefinition in the same frame is still allowed.
	env.Define("pi", &Integer{Value: 4}, true)
	if v, _ := env.Get("pi"); v.(*Integer).Value != 4 {
		t.Fatal("redefinition failed")
	}
}

func TestObjectInspect(t *testing.T) {
	cases := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: -5}, "-5"},
		{TRUE, "Ha"},
		{FALSE, "Na"},
		{&StringObject{Value: "kotha"}, "kotha"},
		{&Null{}, "null"},
		{&ErrorObject{Message: "bhul"}, "ERROR: bhul"},
		{&Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}, "[1, 2]"},
	}
	for _, tc := range cases {
		if got := tc.obj.Inspect(); got != tc.want {
			t.Errorf("%T.Inspect() = %q, want %q", tc.obj, got, tc.want)
		}
	}
}
