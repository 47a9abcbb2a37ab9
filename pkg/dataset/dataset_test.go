package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}
	return path
}

func TestFromTSV(t *testing.T) {
	path := writeCorpus(t, "ham\tLet's meet tomorrow\nspam\tfree pills now\n\nham\tquarterly report attached\n")

	ds := FromTSV(path)

	// Schema is known before materialization
	schema := ds.Schema()
	if len(schema) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(schema))
	}
	if schema[0].Name != ColLabel || schema[0].Kind != KindString {
		t.Errorf("Unexpected label column: %+v", schema[0])
	}
	if schema[1].Name != ColText || schema[1].Kind != KindString {
		t.Errorf("Unexpected text column: %+v", schema[1])
	}

	n, err := ds.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows (blank line skipped), got %d", n)
	}

	labels, err := ds.Strings(ColLabel)
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	if labels[0] != "ham" || labels[1] != "spam" || labels[2] != "ham" {
		t.Errorf("Unexpected labels: %v", labels)
	}

	texts, err := ds.Strings(ColText)
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	if texts[1] != "free pills now" {
		t.Errorf("Unexpected message: %q", texts[1])
	}
}

func TestFromTSVLazyErrors(t *testing.T) {
	// Constructing a dataset over a missing file does not fail
	ds := FromTSV(filepath.Join(t.TempDir(), "missing.tsv"))

	// The error surfaces on first access
	if _, err := ds.Len(); err == nil {
		t.Error("Expected error for missing corpus file")
	}

	// Malformed rows surface on first access too
	path := writeCorpus(t, "ham\thello\nno tab separator here\n")
	ds = FromTSV(path)
	_, err := ds.Strings(ColText)
	if err == nil {
		t.Fatal("Expected error for malformed corpus")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line number in error, got: %v", err)
	}
}

func TestFromTSVLoadErrorIsSticky(t *testing.T) {
	ds := FromTSV(filepath.Join(t.TempDir(), "missing.tsv"))

	if _, err := ds.Len(); err == nil {
		t.Fatal("Expected error for missing corpus file")
	}

	// Accesses after a failed load keep reporting the error
	if _, err := ds.Strings(ColLabel); err == nil {
		t.Error("Expected error from column access after failed load")
	}
	if _, err := ds.Len(); err == nil {
		t.Error("Expected error from repeated Len after failed load")
	}
}

func TestColumnErrors(t *testing.T) {
	ds := FromMessages([]string{"hello", "world"})

	if _, err := ds.Strings("Nope"); err == nil {
		t.Error("Expected error for missing column")
	}
	if _, err := ds.Bools(ColText); err == nil {
		t.Error("Expected error for wrong column kind")
	}
}

func TestWithColumnReplaces(t *testing.T) {
	ds, err := FromRows([]string{"spam", "ham"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	out, err := ds.WithBools(ColLabel, []bool{true, false})
	if err != nil {
		t.Fatalf("WithBools failed: %v", err)
	}

	// Replaced in place, schema order and length preserved
	schema := out.Schema()
	if len(schema) != 2 {
		t.Fatalf("Expected 2 columns after replace, got %d", len(schema))
	}
	if schema[0].Name != ColLabel || schema[0].Kind != KindBool {
		t.Errorf("Label column not replaced: %+v", schema[0])
	}

	labels, err := out.Bools(ColLabel)
	if err != nil {
		t.Fatalf("Bools failed: %v", err)
	}
	if !labels[0] || labels[1] {
		t.Errorf("Unexpected label values: %v", labels)
	}

	// Original dataset untouched
	if _, err := ds.Strings(ColLabel); err != nil {
		t.Errorf("Original dataset changed: %v", err)
	}
}

func TestWithColumnLengthMismatch(t *testing.T) {
	ds := FromMessages([]string{"a", "b", "c"})
	if _, err := ds.WithFloats("Score", []float64{1.0}); err == nil {
		t.Error("Expected error for length mismatch")
	}
}

func TestSubset(t *testing.T) {
	ds, err := FromRows([]string{"ham", "spam", "ham"}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	sub, err := ds.Subset([]int{2, 0})
	if err != nil {
		t.Fatalf("Subset failed: %v", err)
	}

	texts, err := sub.Strings(ColText)
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	if len(texts) != 2 || texts[0] != "c" || texts[1] != "a" {
		t.Errorf("Unexpected subset rows: %v", texts)
	}

	if _, err := ds.Subset([]int{3}); err == nil {
		t.Error("Expected error for out of range index")
	}
}

func TestDrop(t *testing.T) {
	ds, err := FromRows([]string{"ham"}, []string{"a"})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	out, err := ds.Drop(ColLabel)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if out.Schema().Has(ColLabel) {
		t.Error("Label column still present after drop")
	}
	if !out.Schema().Has(ColText) {
		t.Error("Text column lost by drop")
	}
}
