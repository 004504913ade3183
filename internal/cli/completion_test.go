package cli

import (
	"reflect"
	"testing"
)

func TestNodeCandidates(t *testing.T) {
	g := exampleGraph(t)

	tests := []struct {
		name       string
		tablesOnly bool
		prefix     string
		want       []string
	}{
		{"raw tables", true, "raw_", []string{"raw_orders", "raw_customers", "raw_products"}},
		{"pipelines excluded", true, "etl", nil},
		{"pipelines included", false, "etl", []string{"etl_order_enrichment"}},
		{"no match", false, "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nodeCandidates(g, tt.tablesOnly, tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("nodeCandidates(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestColumnCandidates(t *testing.T) {
	g := exampleGraph(t)

	got := columnCandidates(g, "", "dim_customer:f", true)
	if want := []string{"dim_customer:full_name"}; !reflect.DeepEqual(got, want) {
		t.Errorf("qualified candidates = %v, want %v", got, want)
	}

	got = columnCandidates(g, "raw_customers", "", false)
	want := []string{"customer_id", "first_name", "last_name", "email", "membership", "created_at"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("column candidates = %v, want %v", got, want)
	}
}
