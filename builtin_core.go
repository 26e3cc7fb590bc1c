package bplus

import (
	"fmt"
	"os"
	"strings"
)

func wrongArgCount(want, got int) *ErrorObject {
	return &ErrorObject{
		Message: fmt.Sprintf("Bhul argument sonkha - proyojon %dti, dewa hoyeche %dti", want, got),
	}
}

func wantString(name string, arg Object) (*StringObject, *ErrorObject) {
	s, ok := arg.(*StringObject)
	if !ok {
		return nil, &ErrorObject{
			Message: fmt.Sprintf("%s: Data type mile na - protjashito 'STRING' kintu pawa gelo '%s'", name, arg.Type()),
		}
	}
	return s, nil
}

func wantInteger(name string, arg Object) (*Integer, *ErrorObject) {
	n, ok := arg.(*Integer)
	if !ok {
		return nil, &ErrorObject{
			Message: fmt.Sprintf("%s: Data type mile na - protjashito 'INTEGER' kintu pawa gelo '%s'", name, arg.Type()),
		}
	}
	return n, nil
}

// registerCoreBuiltins installs the I/O and lifecycle natives. They close
// over the evaluator so the REPL and test harnesses can redirect the
// streams.
func registerCoreBuiltins(env *Environment, ev *Evaluator) {
	RegisterNative(env, "dekhao", func(args ...Object) Object {
		pieces := make([]string, 0, len(args))
		for _, a := range args {
			pieces = append(pieces, a.Inspect())
		}
		fmt.Fprintln(ev.Out, strings.Join(pieces, " "))
		return NULL
	})

	RegisterNative(env, "input", func(args ...Object) Object {
		if len(args) > 0 {
			if prompt, ok := args[0].(*StringObject); ok {
				fmt.Fprint(ev.Out, prompt.Value)
			}
		}
		line, err := ev.In.ReadString('\n')
		if err != nil && line == "" {
			return &StringObject{Value: ""}
		}
		return &StringObject{Value: strings.TrimRight(line, "\r\n")}
	})

	// Program frame markers. They carry no behavior of their own; scripts
	// use them to bracket the main body.
	RegisterNative(env, "shuru_koro", func(args ...Object) Object { return NULL })
	RegisterNative(env, "bondho_koro", func(args ...Object) Object { return NULL })

	RegisterNative(env, "exitkoro", func(args ...Object) Object {
		code := 0
		if len(args) > 0 {
			if n, ok := args[0].(*Integer); ok {
				code = int(n.Value)
			}
		}
		os.Exit(code)
		return NULL
	})
}
