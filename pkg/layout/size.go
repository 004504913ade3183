package layout

import (
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// Node widths by type, in graph units.
const (
	WidthTable     = 260.0
	WidthPipeline  = 200.0
	WidthDashboard = 220.0
	WidthDefault   = 240.0
)

// Vertical metrics of a rendered node, in graph units.
const (
	HeaderHeight      = 42.0
	SubtitleHeight    = 22.0
	ColumnRowHeight   = 28.0
	ColumnPadding     = 8.0
	ChartsHeight      = 36.0
	DescriptionHeight = 30.0

	// MaxVisibleColumns caps the rows counted for an expanded table. Extra
	// rows scroll inside the node.
	MaxVisibleColumns = 10
)

// Width returns the fixed width for a node type.
func Width(t lineage.NodeType) float64 {
	switch t {
	case lineage.NodeTable:
		return WidthTable
	case lineage.NodePipeline:
		return WidthPipeline
	case lineage.NodeDashboard:
		return WidthDashboard
	default:
		return WidthDefault
	}
}

// CollapsedHeight estimates the height of a node with its detail hidden:
// header and subtitle, plus the description band for pipelines that have one
// and the chart summary for dashboards that list charts.
func CollapsedHeight(n *lineage.Node) float64 {
	h := HeaderHeight + SubtitleHeight
	switch n.Type {
	case lineage.NodePipeline:
		if n.Description != "" {
			h += DescriptionHeight
		}
	case lineage.NodeDashboard:
		if len(n.Charts) > 0 {
			h += ChartsHeight
		}
	}
	return h
}

// ExpandedHeight estimates the height of an expanded table:
// header + subtitle + min(columns, 10) rows + padding. Other node types have
// no expanded form and report their collapsed height.
func ExpandedHeight(n *lineage.Node) float64 {
	if !n.IsTable() || len(n.Columns) == 0 {
		return CollapsedHeight(n)
	}
	rows := min(len(n.Columns), MaxVisibleColumns)
	return HeaderHeight + SubtitleHeight + float64(rows)*ColumnRowHeight + ColumnPadding
}

// EstimateHeight returns the expanded or collapsed estimate.
func EstimateHeight(n *lineage.Node, expanded bool) float64 {
	if expanded {
		return ExpandedHeight(n)
	}
	return CollapsedHeight(n)
}

// EstimateSize returns the estimated box of a node.
func EstimateSize(n *lineage.Node, expanded bool) geom.Size {
	return geom.Size{Width: Width(n.Type), Height: EstimateHeight(n, expanded)}
}

// ColumnRowCenter returns the vertical offset of the i-th column row's center
// from the top of an expanded table. Rows past the visible budget are pinned
// to the last visible row.
func ColumnRowCenter(i int) float64 {
	if i >= MaxVisibleColumns {
		i = MaxVisibleColumns - 1
	}
	return HeaderHeight + SubtitleHeight + ColumnPadding/2 + (float64(i)+0.5)*ColumnRowHeight
}
