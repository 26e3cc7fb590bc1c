package bplus

import "time"

// registerTimeBuiltins installs the clock natives. shomoy takes an optional
// format selector: "timestamp", "date" or "time"; with no argument it
// returns the full local date and time.
func registerTimeBuiltins(env *Environment) {
	RegisterNative(env, "shomoy", func(args ...Object) Object {
		now := time.Now()
		if len(args) == 0 {
			return &StringObject{Value: now.Format("02/01/2006 15:04:05")}
		}
		sel, errObj := wantString("shomoy", args[0])
		if errObj != nil {
			return errObj
		}
		switch sel.Value {
		case "timestamp":
			return &Integer{Value: now.Unix()}
		case "date":
			return &StringObject{Value: now.Format("02/01/2006")}
		case "time":
			return &StringObject{Value: now.Format("15:04:05")}
		default:
			return &ErrorObject{Message: "shomoy: ojana format '" + sel.Value + "'"}
		}
	})

	RegisterNative(env, "timestamp", func(args ...Object) Object {
		return &Integer{Value: time.Now().Unix()}
	})

	RegisterNative(env, "date", func(args ...Object) Object {
		return &StringObject{Value: time.Now().Format("02/01/2006")}
	})

	// sleep(ms) pauses the current run.
	RegisterNative(env, "sleep", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		ms, errObj := wantInteger("sleep", args[0])
		if errObj != nil {
			return errObj
		}
		if ms.Value > 0 {
			time.Sleep(time.Duration(ms.Value) * time.Millisecond)
		}
		return NULL
	})
}
