package feed

import (
	"testing"
)

func TestParser_DedupKeepsFirstOccurrence(t *testing.T) {
	parser := NewParser()

	data := []byte(`[
		{"app_id": 1, "humanized_name": "First"},
		{"app_id": 2, "humanized_name": "Second"},
		{"app_id": 1, "humanized_name": "Duplicate of first"}
	]`)

	records, err := parser.Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records after dedup, got %d", len(records))
	}
	if records[0].Get("humanized_name").String() != "First" {
		t.Errorf("Expected first occurrence to win, got '%s'", records[0].Get("humanized_name").String())
	}
	if records[1].Get("humanized_name").String() != "Second" {
		t.Errorf("Expected original order preserved, got '%s'", records[1].Get("humanized_name").String())
	}
}

func TestParser_DropsFalsyAppIDs(t *testing.T) {
	parser := NewParser()

	data := []byte(`[
		{"humanized_name": "No id at all"},
		{"app_id": null, "humanized_name": "Null id"},
		{"app_id": "", "humanized_name": "Empty id"},
		{"app_id": 0, "humanized_name": "Zero id"},
		{"app_id": false, "humanized_name": "False id"},
		{"app_id": "kept", "humanized_name": "Valid"}
	]`)

	records, err := parser.Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Get("humanized_name").String() != "Valid" {
		t.Errorf("Expected only the valid record to survive, got '%s'", records[0].Get("humanized_name").String())
	}
}

func TestParser_FlattensOneLevel(t *testing.T) {
	parser := NewParser()

	data := []byte(`[
		[{"app_id": "a"}, {"app_id": "b"}],
		{"app_id": "c"},
		[{"app_id": "d"}]
	]`)

	records, err := parser.Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("Expected 4 records after flattening, got %d", len(records))
	}
	for i, expected := range []string{"a", "b", "c", "d"} {
		if got := records[i].Get("app_id").String(); got != expected {
			t.Errorf("Expected record %d to have app_id '%s', got '%s'", i, expected, got)
		}
	}
}

func TestParser_NumericAndStringIDsAreDistinct(t *testing.T) {
	parser := NewParser()

	data := []byte(`[
		{"app_id": 123, "humanized_name": "Numeric"},
		{"app_id": "123", "humanized_name": "String"}
	]`)

	records, err := parser.Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Expected numeric 123 and string \"123\" to count as distinct ids, got %d records", len(records))
	}
}

func TestParser_RejectsMalformedPayloads(t *testing.T) {
	parser := NewParser()

	for _, payload := range []string{
		`{"not": "an array"}`,
		`"just a string"`,
		`{invalid json`,
	} {
		if _, err := parser.Run([]byte(payload)); err == nil {
			t.Errorf("Expected error for payload %q, got nil", payload)
		}
	}
}

func TestParser_EmptyFeed(t *testing.T) {
	parser := NewParser()

	records, err := parser.Run([]byte(`[]`))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected 0 records, got %d", len(records))
	}
}
