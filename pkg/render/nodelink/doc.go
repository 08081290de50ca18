// Package nodelink renders Boolean networks as node-link diagrams.
//
// # Overview
//
// Each node is drawn as a circle labelled with its 1-based index and filled
// by its current state. Each neighbor entry becomes an arrow from the node
// to the node it reads, so a node's out-edges are its inputs.
//
// # Usage
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
