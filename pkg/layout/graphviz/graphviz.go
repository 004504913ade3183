// Package graphviz implements [layout.Engine] with Graphviz's dot layout,
// run in-process through github.com/goccy/go-graphviz.
//
// Nodes are emitted as fixed-size boxes so dot lays out exactly the estimated
// sizes. The result is rendered in the "plain" output format and parsed back:
// plain coordinates are node centers in inches with the origin at the bottom
// left, so they are scaled by 72 and flipped into the y-down graph space.
package graphviz

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	gv "github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
)

// pointsPerInch converts between graph units and Graphviz inches.
const pointsPerInch = 72.0

const formatPlain gv.Format = "plain"

// Engine implements [layout.Engine].
type Engine struct{}

// New returns a Graphviz engine.
func New() *Engine { return &Engine{} }

// Name returns "graphviz".
func (e *Engine) Name() string { return "graphviz" }

// ComputeLayout runs dot over the input and returns node centers.
func (e *Engine) ComputeLayout(ctx context.Context, nodes []layout.SizedNode, edges []layout.EdgeRef, cfg layout.Config) (map[string]geom.Point, error) {
	if len(nodes) == 0 {
		return map[string]geom.Point{}, nil
	}
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	for _, ed := range edges {
		if !known[ed.Source] || !known[ed.Target] {
			return nil, errors.New(errors.ErrCodeUnknownNode, "layout input: edge %s→%s references an unknown node", ed.Source, ed.Target)
		}
	}

	plain, err := render(ctx, ToDOT(nodes, edges, cfg))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "graphviz layout")
	}
	centers, err := ParsePlain(plain, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse graphviz output")
	}
	return centers, nil
}

// ToDOT converts engine input into a left-to-right DOT digraph. Node
// declaration order follows the input, which dot uses as its initial
// ordering.
func ToDOT(nodes []layout.SizedNode, edges []layout.EdgeRef, cfg layout.Config) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(cfg.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(cfg.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", quote(n.ID), inches(n.Width), inches(n.Height))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.Source), quote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func render(ctx context.Context, dot string) ([]byte, error) {
	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer g.Close()

	graph, err := gv.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ParsePlain reads Graphviz plain output and returns node centers in graph
// units, offset by the configured margins.
func ParsePlain(plain []byte, cfg layout.Config) (map[string]geom.Point, error) {
	var height float64
	haveGraph := false
	out := make(map[string]geom.Point)

	sc := bufio.NewScanner(bytes.NewReader(plain))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: short graph statement", line)
			}
			if height, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, fmt.Errorf("line %d: graph height: %w", line, err)
			}
			haveGraph = true
		case "node":
			if !haveGraph {
				return nil, fmt.Errorf("line %d: node before graph statement", line)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: short node statement", line)
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("line %d: bad node position", line)
			}
			out[fields[1]] = geom.Point{
				X: x*pointsPerInch + cfg.MarginX,
				Y: (height-y)*pointsPerInch + cfg.MarginY,
			}
		case "stop":
			return out, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitPlain splits a plain-format line on spaces, honoring double-quoted
// fields with backslash escapes.
func splitPlain(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote, escaped, started := false, false, false

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

func quote(id string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(id) + `"`
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}
