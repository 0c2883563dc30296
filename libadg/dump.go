package libadg

import (
	"bufio"
	"fmt"
	"io"
)

// WriteMatrices writes each diagram's adjacency matrix under a 1-based "Diagram n: <i>" header,
// one space-separated row per line and a blank line after each matrix.
func WriteMatrices(w io.Writer, diagrams []*Diagram) error {
	out := bufio.NewWriter(w)
	for i, D := range diagrams {
		fmt.Fprintf(out, "Diagram n: %d\n", i+1)
		M := D.Matrix()
		for _, row := range M.Rows() {
			for j, n := range row {
				if j > 0 {
					out.WriteByte(' ')
				}
				fmt.Fprintf(out, "%d", n)
			}
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	return out.Flush()
}

// WriteExpressions writes one LaTeX line per diagram that carries an Expression.
func WriteExpressions(w io.Writer, diagrams []*Diagram) error {
	out := bufio.NewWriter(w)
	for i, D := range diagrams {
		if D.Expr == nil {
			continue
		}
		fmt.Fprintf(out, "%% Diagram n: %d\n", i+1)
		out.WriteString(D.Expr.Latex())
		out.WriteString("\n\n")
	}
	return out.Flush()
}
