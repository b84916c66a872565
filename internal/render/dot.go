// Package render draws the curriculum map as a Graphviz diagram, with
// units coloured by their state against the passed set.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/abhisek/malla/internal/curriculum"
)

// Options configures diagram rendering.
type Options struct {
	// Clusters draws each group (term) as a labelled box.
	Clusters bool

	// Title is shown above the diagram when non-empty.
	Title string
}

type palette struct {
	fill, font, border string
}

var statePalette = map[curriculum.State]palette{
	curriculum.StateLocked:   {fill: "#e5e7eb", font: "#6b7280", border: "#9ca3af"},
	curriculum.StateUnlocked: {fill: "#fef9c3", font: "#111827", border: "#ca8a04"},
	curriculum.StatePassed:   {fill: "#bbf7d0", font: "#14532d", border: "#16a34a"},
}

// ToDOT converts the graph to Graphviz DOT format. Each unit is filled
// according to its status; locked units carry a tooltip listing the
// prerequisites still missing. Edges to undeclared ids are omitted.
func ToDOT(g *curriculum.Graph, statuses []curriculum.Status, opts Options) string {
	byID := make(map[string]curriculum.Status, len(statuses))
	for _, st := range statuses {
		byID[st.ID] = st
	}

	var buf bytes.Buffer
	buf.WriteString("digraph malla {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.25;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=18;\n", opts.Title)
	}
	buf.WriteString("\n")

	if opts.Clusters {
		for i, group := range g.Groups() {
			if group == "" {
				continue
			}
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n    style=\"rounded,dashed\";\n    color=\"#9ca3af\";\n", group)
			for _, u := range g.ByGroup(group) {
				writeNode(&buf, "    ", g, u, byID[u.ID])
			}
			buf.WriteString("  }\n")
		}
		for _, u := range g.ByGroup("") {
			writeNode(&buf, "  ", g, u, byID[u.ID])
		}
	} else {
		for _, u := range g.Units() {
			writeNode(&buf, "  ", g, u, byID[u.ID])
		}
	}

	buf.WriteString("\n")
	for _, u := range g.Units() {
		for _, to := range u.Unlocks {
			if !g.Has(to) {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", u.ID, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, g *curriculum.Graph, u curriculum.Unit, st curriculum.Status) {
	p := statePalette[st.State]
	attrs := []string{
		fmt.Sprintf("label=%q", u.ID+"\n"+u.Label),
		fmt.Sprintf("fillcolor=%q", p.fill),
		fmt.Sprintf("fontcolor=%q", p.font),
		fmt.Sprintf("color=%q", p.border),
		fmt.Sprintf("tooltip=%q", tooltip(g, u, st)),
	}
	if st.State == curriculum.StateLocked {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, u.ID, strings.Join(attrs, ", "))
}

func tooltip(g *curriculum.Graph, u curriculum.Unit, st curriculum.Status) string {
	switch st.State {
	case curriculum.StatePassed:
		return u.Label + ": passed"
	case curriculum.StateUnlocked:
		return u.Label + ": available"
	}
	if len(st.Deficit) == 0 {
		return u.Label + ": locked"
	}
	return "Requires: " + strings.Join(g.Labels(st.Deficit), ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
