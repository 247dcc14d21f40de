package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// points per inch; Graphviz sizes nodes in inches and positions in points,
// and one point is one pixel here.
const dpi = 72.0

// DOTOptions controls the graph-level attributes of generated DOT.
type DOTOptions struct {
	RankSep float64 // inches
	NodeSep float64 // inches
}

// DefaultDOTOptions mirrors the spacing used for rendered charts.
var DefaultDOTOptions = DOTOptions{RankSep: 0.6, NodeSep: 0.35}

// ToDOT writes boxes and edges as a top-to-bottom digraph with fixed-size,
// unlabeled nodes. Edges to unknown boxes are written as-is.
func ToDOT(boxes []Box, edges []Edge, opts DOTOptions) string {
	if opts.RankSep <= 0 {
		opts.RankSep = DefaultDOTOptions.RankSep
	}
	if opts.NodeSep <= 0 {
		opts.NodeSep = DefaultDOTOptions.NodeSep
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", ftoa(opts.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", ftoa(opts.NodeSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, b := range boxes {
		fmt.Fprintf(&buf, "  %q [width=%s, height=%s];\n", b.ID, ftoa(b.Width/dpi), ftoa(b.Height/dpi))
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

// Graphviz lays out boxes with the dot engine.
type Graphviz struct {
	Options DOTOptions
}

// NewGraphviz returns a Graphviz engine with default spacing.
func NewGraphviz() *Graphviz { return &Graphviz{Options: DefaultDOTOptions} }

// Layout renders the boxes to positioned DOT and reads the node centers
// back. Box ids are replaced with generated names so that arbitrary ids
// never need escaping.
func (g *Graphviz) Layout(ctx context.Context, boxes []Box, edges []Edge) (map[string]Point, error) {
	names := make(map[string]string, len(boxes))
	ids := make(map[string]string, len(boxes))
	renamed := make([]Box, len(boxes))
	for i, b := range boxes {
		name := "n" + strconv.Itoa(i)
		names[b.ID] = name
		ids[name] = b.ID
		renamed[i] = Box{ID: name, Width: b.Width, Height: b.Height}
	}
	var renamedEdges []Edge
	for _, e := range edges {
		from, okFrom := names[e.From]
		to, okTo := names[e.To]
		if okFrom && okTo {
			renamedEdges = append(renamedEdges, Edge{From: from, To: to})
		}
	}

	out, err := renderDOT(ctx, ToDOT(renamed, renamedEdges, g.Options))
	if err != nil {
		return nil, err
	}
	byName, err := ParsePositions(out)
	if err != nil {
		return nil, err
	}

	pos := make(map[string]Point, len(byName))
	for name, p := range byName {
		if id, ok := ids[name]; ok {
			pos[id] = p
		}
	}
	return pos, nil
}

func renderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "create graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "parse dot")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "render dot")
	}
	return buf.Bytes(), nil
}

var (
	stmtRe = regexp.MustCompile(`(?s)("(?:[^"\\]|\\.)*"|[\w.]+)(\s*->\s*(?:"(?:[^"\\]|\\.)*"|[\w.]+))?\s*\[((?:[^\]"]|"(?:[^"\\]|\\.)*")*)\]`)
	attrRe = regexp.MustCompile(`(\w+)\s*=\s*("(?:[^"\\]|\\.)*"|[^,\s\]]+)`)
)

// ParsePositions reads node centers from positioned DOT output. The y axis
// is flipped using the graph bounding box so that y grows downward.
func ParsePositions(out []byte) (map[string]Point, error) {
	text := strings.ReplaceAll(string(out), "\\\r\n", "")
	text = strings.ReplaceAll(text, "\\\n", "")

	var (
		height float64
		haveBB bool
		raw    = make(map[string]Point)
	)
	for _, m := range stmtRe.FindAllStringSubmatch(text, -1) {
		name, isEdge, body := unquote(m[1]), m[2] != "", m[3]
		if isEdge {
			continue
		}
		attrs := parseAttrs(body)
		switch name {
		case "graph":
			if bb, ok := attrs["bb"]; ok {
				f, err := floats(bb, 4)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "parse bb")
				}
				height, haveBB = f[3], true
			}
		case "node", "edge":
		default:
			p, ok := attrs["pos"]
			if !ok {
				continue
			}
			f, err := floats(p, 2)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "parse pos of %s", name)
			}
			raw[name] = Point{X: f[0], Y: f[1]}
		}
	}
	if !haveBB {
		return nil, errors.New(errors.ErrCodeLayoutFailure, "layout output has no bounding box")
	}

	pos := make(map[string]Point, len(raw))
	for name, p := range raw {
		pos[name] = Point{X: p.X, Y: height - p.Y}
	}
	return pos, nil
}

func parseAttrs(body string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(body, -1) {
		attrs[m[1]] = unquote(m[2])
	}
	return attrs
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func floats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) < n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(parts[i], "!")), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
