package bplus

import (
	"os"
	"runtime"
)

// registerSystemBuiltins installs the host environment natives.
func registerSystemBuiltins(env *Environment) {
	RegisterNative(env, "platform", func(args ...Object) Object {
		return &StringObject{Value: runtime.GOOS}
	})

	RegisterNative(env, "env_var", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		name, errObj := wantString("env_var", args[0])
		if errObj != nil {
			return errObj
		}
		return &StringObject{Value: os.Getenv(name.Value)}
	})
}
