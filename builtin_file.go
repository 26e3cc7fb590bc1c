package bplus

import "os"

// registerFileBuiltins installs the file natives. A missing file is a
// recoverable Error value rendered with the active templates, not a crash.
func registerFileBuiltins(env *Environment, ev *Evaluator) {
	RegisterNative(env, "readkoro", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		path, errObj := wantString("readkoro", args[0])
		if errObj != nil {
			return errObj
		}
		data, err := os.ReadFile(path.Value)
		if err != nil {
			return ev.diag(ErrFileNotFound, path.Value)
		}
		return &StringObject{Value: string(data)}
	})

	RegisterNative(env, "writekoro", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		path, errObj := wantString("writekoro", args[0])
		if errObj != nil {
			return errObj
		}
		content, errObj := wantString("writekoro", args[1])
		if errObj != nil {
			return errObj
		}
		if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
			return &ErrorObject{Message: "writekoro: file lekha jay ni: " + err.Error()}
		}
		return TRUE
	})
}
