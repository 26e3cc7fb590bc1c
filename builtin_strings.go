package bplus

import (
	"strings"
	"unicode/utf8"
)

// registerStringBuiltins installs the text natives. Lengths count runes so
// Bengali text measures correctly.
func registerStringBuiltins(env *Environment) {
	RegisterNative(env, "lambai", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		s, errObj := wantString("lambai", args[0])
		if errObj != nil {
			return errObj
		}
		return &Integer{Value: int64(utf8.RuneCountInString(s.Value))}
	})

	RegisterNative(env, "boro", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		s, errObj := wantString("boro", args[0])
		if errObj != nil {
			return errObj
		}
		return &StringObject{Value: strings.ToUpper(s.Value)}
	})

	RegisterNative(env, "choto", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		s, errObj := wantString("choto", args[0])
		if errObj != nil {
			return errObj
		}
		return &StringObject{Value: strings.ToLower(s.Value)}
	})

	RegisterNative(env, "contains", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		s, errObj := wantString("contains", args[0])
		if errObj != nil {
			return errObj
		}
		sub, errObj := wantString("contains", args[1])
		if errObj != nil {
			return errObj
		}
		return nativeBoolToBooleanObject(strings.Contains(s.Value, sub.Value))
	})

	RegisterNative(env, "split", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		s, errObj := wantString("split", args[0])
		if errObj != nil {
			return errObj
		}
		sep, errObj := wantString("split", args[1])
		if errObj != nil {
			return errObj
		}
		parts := strings.Split(s.Value, sep.Value)
		elems := make([]Object, 0, len(parts))
		for _, p := range parts {
			elems = append(elems, &StringObject{Value: p})
		}
		return &Array{Elements: elems}
	})

	RegisterNative(env, "trim", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		s, errObj := wantString("trim", args[0])
		if errObj != nil {
			return errObj
		}
		return &StringObject{Value: strings.TrimSpace(s.Value)}
	})

	RegisterNative(env, "replace", func(args ...Object) Object {
		if len(args) != 3 {
			return wrongArgCount(3, len(args))
		}
		s, errObj := wantString("replace", args[0])
		if errObj != nil {
			return errObj
		}
		old, errObj := wantString("replace", args[1])
		if errObj != nil {
			return errObj
		}
		nw, errObj := wantString("replace", args[2])
		if errObj != nil {
			return errObj
		}
		return &StringObject{Value: strings.ReplaceAll(s.Value, old.Value, nw.Value)}
	})
}
