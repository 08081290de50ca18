// Package render provides display formatting for Boolean networks.
//
// # Overview
//
// This package turns a network's states into output for people. It provides:
//
//   - Token lines: one caller-supplied "on" or "off" token per node ([States])
//   - Wrapped token grids for terminals ([Grid])
//   - Node-link diagrams in Graphviz DOT and SVG (in [nodelink] subpackage)
//
// # Token Lines
//
//	line := render.States(net, "#", ".")  // "#..#"
//
// Tokens can be any string, including multi-character or styled (ANSI)
// strings; they are concatenated without separators.
//
// # Node-Link Diagrams
//
//	dot := nodelink.ToDOT(net, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/boolnet/pkg/render/nodelink
package render
