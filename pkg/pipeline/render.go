package pipeline

import (
	"fmt"
	"io"

	"github.com/matzehuels/orgchart/pkg/graph"
)

// WriteGraph encodes g to w in the given format.
func WriteGraph(w io.Writer, g *graph.Graph, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatDOT {
		_, err := io.WriteString(w, g.DOT())
		return err
	}
	if err := graph.Write(g, w); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}
