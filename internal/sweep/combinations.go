package sweep

import (
	"fmt"
	"os"
	"strings"
)

// ParamValue is one fixed parameter assignment within a combination.
type ParamValue struct {
	Name  string
	Value Value
}

// Combination is one concrete run: every parameter fixed to a value, plus
// the run index. Params are ordered lexicographically by name.
type Combination struct {
	Params []ParamValue
	Run    int
}

// Lookup returns the value assigned to the named parameter.
func (c Combination) Lookup(name string) (Value, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Combinations expands the experiment's parameter grid into the full
// Cartesian product crossed with the run index range. Parameter names are
// fixed in lexicographic order and the run index varies innermost, so the
// sequence is deterministic and exhaustive. An empty value list for any
// parameter yields zero combinations.
func (e Experiment) Combinations() []Combination {
	names := e.ParameterNames()

	var out []Combination
	current := make([]ParamValue, len(names))

	var unroll func(i int)
	unroll = func(i int) {
		if i == len(names) {
			for run := 0; run < e.Runs; run++ {
				params := make([]ParamValue, len(current))
				copy(params, current)
				out = append(out, Combination{Params: params, Run: run})
			}
			return
		}
		for _, v := range e.Parameters[names[i]] {
			current[i] = ParamValue{Name: names[i], Value: v}
			unroll(i + 1)
		}
	}
	unroll(0)

	return out
}

// Expand substitutes ${name} and $name references in a command template
// with the combination's parameter values. ${run} expands to the run index.
// Unknown references expand to the empty string.
func (c Combination) Expand(template string) string {
	return os.Expand(template, func(name string) string {
		if name == "run" {
			return fmt.Sprintf("%d", c.Run)
		}
		if v, ok := c.Lookup(name); ok {
			return string(v)
		}
		return ""
	})
}

// String renders the combination for diagnostics, e.g. "k=4 n=10 run=0".
func (c Combination) String() string {
	var b strings.Builder
	for _, p := range c.Params {
		fmt.Fprintf(&b, "%s=%s ", p.Name, p.Value)
	}
	fmt.Fprintf(&b, "run=%d", c.Run)
	return b.String()
}
