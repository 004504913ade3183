// Package document defines the wire format of lineage documents and converts
// them into [lineage.Graph] values.
//
// A document is a single JSON (or YAML) object with two arrays:
//
//	{
//	  "nodes": [
//	    {"id": "raw_orders", "type": "table", "database": "shop", "schema": "raw",
//	     "columns": [{"name": "order_id", "dataType": "INT", "tags": ["PK"]}]},
//	    {"id": "etl", "type": "pipeline", "platform": "Airflow"}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "raw_orders", "target": "etl", "columnMapping": []}
//	  ]
//	}
//
// [Read] and [ReadFile] decode and validate in one step. Validation fails fast
// on structural problems (missing ids, unknown node types, duplicate ids,
// edges pointing at missing nodes). Column mappings are not validated: a
// mapping that names a missing column simply never produces a drawable edge.
//
// [LoadOrExample] implements the never-empty fallback: when the document
// cannot be read or decoded, the built-in [Example] is used instead and a
// warning is logged.
package document
