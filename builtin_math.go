package bplus

import (
	"math"
	"math/rand"
)

// registerMathBuiltins installs the arithmetic natives. Everything works on
// integers; sqrt and pow truncate toward zero.
func registerMathBuiltins(env *Environment) {
	RegisterNative(env, "sqrt", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		n, errObj := wantInteger("sqrt", args[0])
		if errObj != nil {
			return errObj
		}
		if n.Value < 0 {
			return &ErrorObject{Message: "sqrt: rinatok shonkhar borgomul nei"}
		}
		return &Integer{Value: int64(math.Sqrt(float64(n.Value)))}
	})

	RegisterNative(env, "abs", func(args ...Object) Object {
		if len(args) != 1 {
			return wrongArgCount(1, len(args))
		}
		n, errObj := wantInteger("abs", args[0])
		if errObj != nil {
			return errObj
		}
		if n.Value < 0 {
			return &Integer{Value: -n.Value}
		}
		return n
	})

	RegisterNative(env, "pow", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		base, errObj := wantInteger("pow", args[0])
		if errObj != nil {
			return errObj
		}
		exp, errObj := wantInteger("pow", args[1])
		if errObj != nil {
			return errObj
		}
		return &Integer{Value: int64(math.Pow(float64(base.Value), float64(exp.Value)))}
	})

	RegisterNative(env, "min", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		a, errObj := wantInteger("min", args[0])
		if errObj != nil {
			return errObj
		}
		b, errObj := wantInteger("min", args[1])
		if errObj != nil {
			return errObj
		}
		if a.Value < b.Value {
			return a
		}
		return b
	})

	RegisterNative(env, "max", func(args ...Object) Object {
		if len(args) != 2 {
			return wrongArgCount(2, len(args))
		}
		a, errObj := wantInteger("max", args[0])
		if errObj != nil {
			return errObj
		}
		b, errObj := wantInteger("max", args[1])
		if errObj != nil {
			return errObj
		}
		if a.Value > b.Value {
			return a
		}
		return b
	})

	// random(max) yields 0..max-1; random(min, max) yields min..max-1.
	RegisterNative(env, "random", func(args ...Object) Object {
		switch len(args) {
		case 1:
			n, errObj := wantInteger("random", args[0])
			if errObj != nil {
				return errObj
			}
			if n.Value <= 0 {
				return &ErrorObject{Message: "random: shima dhonatok hote hobe"}
			}
			return &Integer{Value: rand.Int63n(n.Value)}
		case 2:
			lo, errObj := wantInteger("random", args[0])
			if errObj != nil {
				return errObj
			}
			hi, errObj := wantInteger("random", args[1])
			if errObj != nil {
				return errObj
			}
			if hi.Value <= lo.Value {
				return &ErrorObject{Message: "random: shima dhonatok hote hobe"}
			}
			return &Integer{Value: lo.Value + rand.Int63n(hi.Value-lo.Value)}
		default:
			return wrongArgCount(1, len(args))
		}
	})
}
