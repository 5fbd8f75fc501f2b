package db

import (
	"os"
	"strings"
	"testing"
)

func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(strings.TrimSuffix(strings.TrimSpace(s), ";")), " ")
}

// sourceQueries splits queries/item.sql into name → statement text.
func sourceQueries(t *testing.T) map[string]string {
	t.Helper()
	raw, err := os.ReadFile("../queries/item.sql")
	if err != nil {
		t.Fatalf("read queries: %v", err)
	}
	out := make(map[string]string)
	for _, block := range strings.Split(string(raw), "-- name: ")[1:] {
		header, body, _ := strings.Cut(block, "\n")
		name, _, _ := strings.Cut(header, " ")
		out[name] = normalizeSQL("-- name: " + header + "\n" + body)
	}
	return out
}

func TestQueriesMatchSource(t *testing.T) {
	compiled := map[string]string{
		"ListItems":   listItems,
		"GetItemByID": getItemByID,
		"InsertItem":  insertItem,
		"UpdateItem":  updateItem,
		"DeleteItem":  deleteItem,
	}

	source := sourceQueries(t)
	if len(source) != len(compiled) {
		t.Fatalf("expected %d queries in item.sql, found %d", len(compiled), len(source))
	}
	for name, query := range compiled {
		want, ok := source[name]
		if !ok {
			t.Errorf("%s: missing from item.sql", name)
			continue
		}
		if got := normalizeSQL(query); got != want {
			t.Errorf("%s drifted from item.sql:\n got: %s\nwant: %s", name, got, want)
		}
	}
}
