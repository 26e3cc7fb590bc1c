package bplus

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

func newTestReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func evalSrc(t *testing.T, src string) Object {
	t.Helper()
	rt := NewRuntime()
	rt.Ev.Out = io.Discard
	result, err := rt.RunSource("test", src)
	if err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return result
}

func testInt(t *testing.T, obj Object, want int64) {
	t.Helper()
	n, ok := obj.(*Integer)
	if !ok {
		t.Fatalf("got %T (%s), want *Integer", obj, obj.Inspect())
	}
	if n.Value != want {
		t.Fatalf("got %d, want %d", n.Value, want)
	}
}

func testBoolVal(t *testing.T, obj Object, want bool) {
	t.Helper()
	b, ok := obj.(*BooleanObject)
	if !ok {
		t.Fatalf("got %T (%s), want *BooleanObject", obj, obj.Inspect())
	}
	if b.Value != want {
		t.Fatalf("got %v, want %v", b.Value, want)
	}
}

func testStr(t *testing.T, obj Object, want string) {
	t.Helper()
	s, ok := obj.(*StringObject)
	if !ok {
		t.Fatalf("got %T (%s), want *StringObject", obj, obj.Inspect())
	}
	if s.Value != want {
		t.Fatalf("got %q, want %q", s.Value, want)
	}
}

func testErrContains(t *testing.T, obj Object, want string) {
	t.Helper()
	errObj, ok := obj.(*ErrorObject)
	if !ok {
		t.Fatalf("got %T (%s), want *ErrorObject", obj, obj.Inspect())
	}
	if !strings.Contains(errObj.Message, want) {
		t.Fatalf("error %q does not contain %q", errObj.Message, want)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"5", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"-5 + 10", 5},
		{"7 % 3", 1},
		{"20 / 4 - 2", 3},
	}
	for _, tc := range cases {
		testInt(t, evalSrc(t, tc.src), tc.want)
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"3 <= 3", true},
		{"4 > 5", false},
		{"4 >= 5", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{`"ab" == "ab"`, true},
		{`"ab" != "cd"`, true},
		{"ha ebong na", false},
		{"ha othoba na", true},
		{"!na", true},
	}
	for _, tc := range cases {
		testBoolVal(t, evalSrc(t, tc.src), tc.want)
	}
}

func TestMixedTypeEquality(t *testing.T) {
	// Booleans compare against their surface spellings.
	testBoolVal(t, evalSrc(t, `ha == "Ha"`), true)
	testBoolVal(t, evalSrc(t, `na == "Na"`), true)
	testBoolVal(t, evalSrc(t, `ha == "Na"`), false)
	testBoolVal(t, evalSrc(t, `ha != "Na"`), true)
	testBoolVal(t, evalSrc(t, "ha == na"), false)

	// Pairs with no boolean reading are a type mismatch, not a quiet Na.
	testErrContains(t, evalSrc(t, `1 == "x"`), "Data type mile na")
	testErrContains(t, evalSrc(t, `1 == ha`), "Data type mile na")
}

func TestBooleanInspectsAsBangla(t *testing.T) {
	if got := evalSrc(t, "1 < 2").Inspect(); got != "Ha" {
		t.Fatalf("true inspects as %q, want Ha", got)
	}
	if got := evalSrc(t, "1 > 2").Inspect(); got != "Na" {
		t.Fatalf("false inspects as %q, want Na", got)
	}
}

func TestLetBindings(t *testing.T) {
	testInt(t, evalSrc(t, "dhoro x = 5; dhoro y = x + 2; y;"), 7)
	testInt(t, evalSrc(t, "let a = 3; a * a;"), 9)
	testInt(t, evalSrc(t, "dhore rakho b = 4; b;"), 4)
}

func TestAssignment(t *testing.T) {
	testInt(t, evalSrc(t, "dhoro x = 1; x = x + 10; x;"), 11)
	testErrContains(t, evalSrc(t, "oja = 5;"), "Ojana variable 'oja'")
}

func TestConstBindingsAreImmutable(t *testing.T) {
	testErrContains(t, evalSrc(t, "dhrubok pi = 3; pi = 4;"), "dhrubok 'pi'")
	// Shadowing with a new declaration is still allowed.
	testInt(t, evalSrc(t, "dhrubok pi = 3; dhoro f = kaj() { dhoro pi = 4; ferot pi; }; f();"), 4)
}

func TestStringOperations(t *testing.T) {
	testStr(t, evalSrc(t, `"shu" + "bho"`), "shubho")
	testErrContains(t, evalSrc(t, `5 + "a"`), "Data type mile na")
}

func TestIfExpressions(t *testing.T) {
	testInt(t, evalSrc(t, "jodi 1 < 2 hoy { 10 } nahoy { 20 }"), 10)
	testInt(t, evalSrc(t, "jodi 1 > 2 hoy { 10 } nahoy { 20 }"), 20)
	// Integer 0 is truthy; only Na, null and the "Na" string are false.
	testInt(t, evalSrc(t, "jodi 0 hoy { 1 } nahoy { 2 }"), 1)
	testInt(t, evalSrc(t, "jodi (na) hoy { 1 } nahoy { 2 }"), 2)
	testStr(t, evalSrc(t, `dhoro x = 10; jodi x < 5 hoy { "choto" } nahoy { "boro" }`), "boro")

	// Missing nahoy yields null.
	if _, ok := evalSrc(t, "jodi 1 > 2 hoy { 1 }").(*Null); !ok {
		t.Fatal("if with false condition and no nahoy should be null")
	}
}

func TestNahoyJodiChainEval(t *testing.T) {
	src := `dhoro n = 7;
jodi n < 5 hoy { "choto" }
nahoy jodi n < 10 hoy { "majhari" }
nahoy { "boro" }`
	testStr(t, evalSrc(t, src), "majhari")
}

func TestStringTruthiness(t *testing.T) {
	testInt(t, evalSrc(t, `jodi "Ha" hoy { 1 } nahoy { 2 }`), 1)
	testInt(t, evalSrc(t, `jodi "Na" hoy { 1 } nahoy { 2 }`), 2)
	// The empty string carries no Na coercion, so it is truthy.
	testInt(t, evalSrc(t, `jodi "" hoy { 1 } nahoy { 2 }`), 1)
	testInt(t, evalSrc(t, `jodi "kichu" hoy { 1 } nahoy { 2 }`), 1)
}

func TestFunctions(t *testing.T) {
	testInt(t, evalSrc(t, "dhoro add = kaj(a, b) { ferot a + b; }; add(3, 4);"), 7)
	testInt(t, evalSrc(t, "dhoro sq = kaj(x) { x * x }; sq(6);"), 36)
	testInt(t, evalSrc(t, "kaj(x) { x + 1 }(41);"), 42)
}

func TestClosuresOutliveTheirScope(t *testing.T) {
	src := `dhoro makeAdder = kaj(x) { kaj(y) { ferot x + y; } };
dhoro add5 = makeAdder(5);
add5(3);`
	testInt(t, evalSrc(t, src), 8)
}

func TestClosuresShareTheirEnvironment(t *testing.T) {
	src := `dhoro counter = 0;
dhoro bump = kaj() { counter = counter + 1; ferot counter; };
bump();
bump();
bump();`
	testInt(t, evalSrc(t, src), 3)
}

func TestCommentsEvaluateToNothing(t *testing.T) {
	l := NewLexer("dhoro x = 5;\n// tika\n/* bistarito */\nx;")
	l.PreserveComments()
	p := NewParser(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	rt := NewRuntime()
	rt.Ev.Out = io.Discard
	testInt(t, rt.Ev.Eval(program, rt.Env), 5)
}

func TestBlockScoping(t *testing.T) {
	// A dhoro inside a block shadows; the outer binding survives the block.
	src := `dhoro x = 5;
jodi ha hoy { dhoro x = 99; }
x;`
	testInt(t, evalSrc(t, src), 5)

	// Plain assignment still reaches the outer binding.
	src = `dhoro x = 5;
jodi ha hoy { x = 7; }
x;`
	testInt(t, evalSrc(t, src), 7)

	// Loop bodies scope per iteration.
	src = `dhoro n = 0;
jotokhon n < 3 { dhoro ek = 1; n = n + ek; }
n;`
	testInt(t, evalSrc(t, src), 3)

	src = `dhoro jog = 0;
jonno (dhoro i = 0; i < 3; i = i + 1) { dhoro dui = 2; jog = jog + dui; }
jog;`
	testInt(t, evalSrc(t, src), 6)
}

func TestParameterShadowing(t *testing.T) {
	src := `dhoro x = 10;
dhoro f = kaj(x) { ferot x; };
dhoro got = f(1);
got * 100 + x;`
	testInt(t, evalSrc(t, src), 110)
}

func TestArityLeniency(t *testing.T) {
	// Extra arguments are ignored.
	testInt(t, evalSrc(t, "dhoro f = kaj(a) { ferot a; }; f(1, 2, 3);"), 1)
	// Missing parameters only fail when the body reads them.
	testInt(t, evalSrc(t, "dhoro f = kaj(a, b) { ferot a; }; f(9);"), 9)
	testErrContains(t, evalSrc(t, "dhoro f = kaj(a, b) { ferot b; }; f(9);"), "Ojana variable 'b'")
}

func TestDivisionByZero(t *testing.T) {
	testErrContains(t, evalSrc(t, "1 / 0"), "Shunno diye bhag")
	testErrContains(t, evalSrc(t, "7 % 0"), "Shunno diye bhag")
}

func TestRuntimeErrorIsRecoverable(t *testing.T) {
	rt := NewRuntime()
	rt.Ev.Out = io.Discard

	result, err := rt.RunSource("test", "1 / 0")
	if err != nil {
		t.Fatalf("runtime error must not become a host error: %v", err)
	}
	if _, ok := result.(*ErrorObject); !ok {
		t.Fatalf("got %T, want *ErrorObject", result)
	}

	// The same runtime keeps working afterwards.
	result, err = rt.RunSource("test", "2 + 2")
	if err != nil {
		t.Fatal(err)
	}
	testInt(t, result, 4)
}

func TestWhileLoop(t *testing.T) {
	src := `dhoro i = 0;
dhoro s = 0;
jotokhon i < 5 { i = i + 1; s = s + i; }
s;`
	testInt(t, evalSrc(t, src), 15)
}

func TestBreakAndContinue(t *testing.T) {
	src := `dhoro i = 0;
dhoro s = 0;
jotokhon i < 10 {
	i = i + 1;
	jodi i == 3 hoy { choluk }
	jodi i > 5 hoy { thamo }
	s = s + i;
}
s;`
	testInt(t, evalSrc(t, src), 12)
}

func TestForLoop(t *testing.T) {
	src := `dhoro s = 0;
jonno (dhoro i = 0; i < 5; i = i + 1) { s = s + i; }
s;`
	testInt(t, evalSrc(t, src), 10)

	// The loop variable stays scoped to the loop.
	testErrContains(t, evalSrc(t, "jonno (dhoro i = 0; i < 3; i = i + 1) { i; } i;"), "Ojana variable 'i'")
}

func TestLoopSignalsDissolveOutsideLoops(t *testing.T) {
	if _, ok := evalSrc(t, "thamo;").(*Null); !ok {
		t.Fatal("top-level thamo should evaluate to null")
	}
	// A signal escaping a function without a loop is absorbed at the call.
	if _, ok := evalSrc(t, "dhoro f = kaj() { choluk }; f();").(*Null); !ok {
		t.Fatal("choluk escaping a function should be null")
	}
}

func TestReturnStopsTheBlock(t *testing.T) {
	src := `dhoro f = kaj() {
	ferot 1;
	ferot 2;
};
f();`
	testInt(t, evalSrc(t, src), 1)
}

func TestStackOverflowIsAnErrorValue(t *testing.T) {
	rt := NewRuntime()
	rt.Ev.Out = io.Discard
	rt.Ev.MaxDepth = 64

	result, err := rt.RunSource("test", "dhoro f = kaj() { ferot f(); }; f();")
	if err != nil {
		t.Fatal(err)
	}
	testErrContains(t, result, "Stack overflow")
}

func TestDekhaoWritesToOut(t *testing.T) {
	rt := NewRuntime()
	var buf bytes.Buffer
	rt.Ev.Out = &buf

	if _, err := rt.RunSource("test", `dekhao("shagotom")`); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "shagotom\n" {
		t.Fatalf("output = %q", got)
	}

	buf.Reset()
	if _, err := rt.RunSource("test", "dekhao(1 < 2)"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Ha\n" {
		t.Fatalf("boolean output = %q", got)
	}
}

func TestDekhaoTemplateLiteral(t *testing.T) {
	rt := NewRuntime()
	var buf bytes.Buffer
	rt.Ev.Out = &buf

	src := `dhoro dam = 5;
dekhao { mot (dam + 2) taka }`
	if _, err := rt.RunSource("test", src); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "mot 7 taka\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestInputReadsFromIn(t *testing.T) {
	rt := NewRuntime()
	var buf bytes.Buffer
	rt.Ev.Out = &buf
	rt.Ev.In = newTestReader("Alih\n")

	result, err := rt.RunSource("test", `input nao("naam: ")`)
	if err != nil {
		t.Fatal(err)
	}
	testStr(t, result, "Alih")
	if buf.String() != "naam: " {
		t.Fatalf("prompt = %q", buf.String())
	}
}

func TestNativeFaultIsolation(t *testing.T) {
	rt := NewRuntime()
	rt.Ev.Out = io.Discard
	RegisterNative(rt.Env, "bisphoron", func(args ...Object) Object {
		panic("boom")
	})

	result, err := rt.RunSource("test", "bisphoron();")
	if err != nil {
		t.Fatal(err)
	}
	testErrContains(t, result, "boom")
}

func TestStringBuiltins(t *testing.T) {
	testInt(t, evalSrc(t, `lambai("hello")`), 5)
	testInt(t, evalSrc(t, `lambai("নাম")`), 3)
	testStr(t, evalSrc(t, `boro("abc")`), "ABC")
	testStr(t, evalSrc(t, `choto("ABC")`), "abc")
	testBoolVal(t, evalSrc(t, `contains("shubho", "bho")`), true)
	testStr(t, evalSrc(t, `trim("  x  ")`), "x")
	testStr(t, evalSrc(t, `replace("a-b-c", "-", "+")`), "a+b+c")

	arr, ok := evalSrc(t, `split("a,b,c", ",")`).(*Array)
	if !ok {
		t.Fatal("split should return an array")
	}
	if len(arr.Elements) != 3 || arr.Elements[1].Inspect() != "b" {
		t.Fatalf("split result = %s", arr.Inspect())
	}
}

func TestMathBuiltins(t *testing.T) {
	testInt(t, evalSrc(t, "sqrt(16)"), 4)
	testInt(t, evalSrc(t, "abs(0 - 7)"), 7)
	testInt(t, evalSrc(t, "pow(2, 10)"), 1024)
	testInt(t, evalSrc(t, "min(3, 9)"), 3)
	testInt(t, evalSrc(t, "max(3, 9)"), 9)

	n, ok := evalSrc(t, "random(10)").(*Integer)
	if !ok || n.Value < 0 || n.Value > 9 {
		t.Fatalf("random(10) = %v", n)
	}

	testErrContains(t, evalSrc(t, "sqrt(16, 2)"), "Bhul argument sonkha")
	testErrContains(t, evalSrc(t, `abs("x")`), "Data type mile na")
}
