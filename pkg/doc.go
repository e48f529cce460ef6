// Package pkg provides the core libraries for graphweave.
//
// # Overview
//
// Graphweave merges graph fragments (a node, its neighbors and the edges
// between them) into one graph, runs a force-directed simulation over it
// and projects the result into a render-ready layout. The pkg directory is
// organized into these areas:
//
//  1. [graph] - Node, edge and fragment records, aggregation, layout types
//  2. [layout] - The force simulation ([layout/force]) and projection ([layout/project])
//  3. [source] - Acquisition of fragments from files and graph services
//  4. [render] - DOT, SVG, PNG and PDF output
//  5. [pipeline] - Orchestration (aggregate → layout → render) with caching
//  6. [cache], [httputil], [config], [observability], [errors] - Infrastructure
//
// # Architecture
//
// The typical data flow through graphweave:
//
//	Graph service / fragment file
//	         ↓
//	    [source] package (fetch or read fragments)
//	         ↓
//	    [graph] package (aggregate into one graph)
//	         ↓
//	    [layout/force] + [layout/project] packages (simulate, project)
//	         ↓
//	    [render/nodelink] package (DOT/SVG/PNG/PDF)
//
// # Quick Start
//
//	fragments, _ := source.ReadFile("fragments.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, fragments, pipeline.Options{
//	    Formats: []string{"json", "svg"},
//	})
//
//	os.WriteFile("graph.svg", result.Artifacts["svg"], 0644)
package pkg
