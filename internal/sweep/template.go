package sweep

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BaseName returns the artifact file stem for one combination:
// "<name>_<param><value>..._r<run>" with parameters in lexicographic order,
// e.g. "random-g_k4_n10_r0".
func (e Experiment) BaseName(c Combination) string {
	var b strings.Builder
	b.WriteString(e.Name)
	for _, p := range c.Params {
		fmt.Fprintf(&b, "_%s%s", p.Name, p.Value)
	}
	fmt.Fprintf(&b, "_r%d", c.Run)
	return b.String()
}

// GraphPath is where the simulator's topology output for a combination lives.
func (e Experiment) GraphPath(dir string, c Combination) string {
	return filepath.Join(dir, e.BaseName(c)+".fbas.json")
}

// ResultPath is where the analyzer's report for a combination lives.
func (e Experiment) ResultPath(dir string, c Combination) string {
	return filepath.Join(dir, e.BaseName(c)+".result.out")
}
