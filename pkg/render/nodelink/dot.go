package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boolnet/pkg/network"
)

// Default fill colours for on and off nodes.
const (
	DefaultOnColor  = "#f4c542"
	DefaultOffColor = "white"
)

// Options configures node-link diagram rendering.
type Options struct {
	// OnColor and OffColor are Graphviz colours for nodes whose state is
	// true and false. Empty values use DefaultOnColor and DefaultOffColor.
	OnColor  string
	OffColor string

	// Detailed adds the state and out-degree to node labels.
	// When false, only the 1-based node index is shown.
	Detailed bool
}

func (o Options) colors() (on, off string) {
	on, off = o.OnColor, o.OffColor
	if on == "" {
		on = DefaultOnColor
	}
	if off == "" {
		off = DefaultOffColor
	}
	return on, off
}

// ToDOT converts a network to Graphviz DOT format for node-link visualization.
// Nodes are labelled with their 1-based index, matching the text format.
// An edge i -> j means node i reads node j. Duplicate neighbors produce
// parallel edges and self-loops are drawn as loops.
func ToDOT(n *network.Network, opts Options) string {
	on, off := opts.colors()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "rule: "+n.Rule())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=18];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range n.Len() {
		fill := off
		if n.State(i) {
			fill = on
		}
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%q];\n", i+1, fmtLabel(n, i, opts.Detailed), fill)
	}

	buf.WriteString("\n")
	for i := range n.Len() {
		for _, j := range n.Neighbors(i) {
			fmt.Fprintf(&buf, "  %d -> %d;\n", i+1, j+1)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *network.Network, i int, detailed bool) string {
	id := strconv.Itoa(i + 1)
	if !detailed {
		return id
	}
	state := "0"
	if n.State(i) {
		state = "1"
	}
	return strings.Join([]string{id, "state: " + state, "inputs: " + strconv.Itoa(n.Degree(i))}, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from its origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
