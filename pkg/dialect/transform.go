package dialect

import (
	"strconv"
	"strings"
)

// FunctionTransform rewrites a function call while translating into a
// dialect. It receives the call name and its rendered arguments and
// returns the replacement text, or false when it does not apply to this
// call (for example on an arity mismatch).
type FunctionTransform interface {
	Transform(name string, args []string) (string, bool)
}

// TransformFunc adapts a function to FunctionTransform.
type TransformFunc func(name string, args []string) (string, bool)

// Transform calls f.
func (f TransformFunc) Transform(name string, args []string) (string, bool) {
	return f(name, args)
}

// Template returns a transform that substitutes $1..$9 in tmpl with the
// rendered arguments. It applies only to calls with exactly arity arguments.
func Template(arity int, tmpl string) FunctionTransform {
	return TransformFunc(func(_ string, args []string) (string, bool) {
		if len(args) != arity {
			return "", false
		}
		var b strings.Builder
		for i := 0; i < len(tmpl); i++ {
			c := tmpl[i]
			if c == '$' && i+1 < len(tmpl) && tmpl[i+1] >= '1' && tmpl[i+1] <= '9' {
				n, _ := strconv.Atoi(tmpl[i+1 : i+2])
				if n <= len(args) {
					b.WriteString(args[n-1])
					i++
					continue
				}
			}
			b.WriteByte(c)
		}
		return b.String(), true
	})
}
