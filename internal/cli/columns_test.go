package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

func exampleGraph(t *testing.T) *lineage.Graph {
	t.Helper()
	doc := document.Example()
	g, err := doc.Graph()
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	return g
}

func TestColumnRowsUpstream(t *testing.T) {
	rows, err := columnRows(exampleGraph(t), "dim_customer", "")
	if err != nil {
		t.Fatalf("columnRows() error = %v", err)
	}

	want := [][]string{
		{"customer_id", dirUpstream, "raw_customers:customer_id", "e5", "etl_order_enrichment"},
		{"full_name", dirUpstream, "raw_customers:first_name", "e5", "etl_order_enrichment"},
		{"full_name", dirUpstream, "raw_customers:last_name", "e5", "etl_order_enrichment"},
		{"email", dirUpstream, "raw_customers:email", "e5", "etl_order_enrichment"},
		{"membership", dirUpstream, "raw_customers:membership", "e5", "etl_order_enrichment"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("columnRows() =\n%v\nwant\n%v", rows, want)
	}
}

func TestColumnRowsDownstream(t *testing.T) {
	rows, err := columnRows(exampleGraph(t), "raw_customers", "first_name")
	if err != nil {
		t.Fatalf("columnRows() error = %v", err)
	}

	want := [][]string{
		{"first_name", dirDownstream, "dim_customer:full_name", "e5", "etl_order_enrichment"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("columnRows() = %v, want %v", rows, want)
	}
}

func TestColumnRowsErrors(t *testing.T) {
	tests := []struct {
		name, node, column string
		code               errors.Code
	}{
		{"unknown node", "nope", "", errors.ErrCodeUnknownNode},
		{"pipeline", "etl_order_enrichment", "", errors.ErrCodeInvalidInput},
		{"unknown column", "dim_customer", "nope", errors.ErrCodeInvalidInput},
	}

	g := exampleGraph(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := columnRows(g, tt.node, tt.column)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("columnRows() error code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestColumnsTable(t *testing.T) {
	rows, err := columnRows(exampleGraph(t), "dim_customer", "full_name")
	if err != nil {
		t.Fatalf("columnRows() error = %v", err)
	}

	out := columnsTable(rows)
	for _, want := range []string{"Column", "full_name", "raw_customers:first_name", "raw_customers:last_name"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
