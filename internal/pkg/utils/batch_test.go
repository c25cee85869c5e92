package utils

import (
	"reflect"
	"testing"
)

func TestBatchStrings(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	batches := BatchStrings(items, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(batches, want) {
		t.Fatalf("BatchStrings = %v, want %v", batches, want)
	}

	if got := BatchStrings(nil, 2); len(got) != 0 {
		t.Fatalf("expected no batches for empty input, got %v", got)
	}

	batches = BatchStrings(items, 0)
	if len(batches) != 1 || len(batches[0]) != 5 {
		t.Fatalf("a non-positive batch size should yield a single batch, got %v", batches)
	}

	batches = BatchStrings(items, 10)
	if len(batches) != 1 {
		t.Fatalf("expected a single batch when the size exceeds the input, got %v", batches)
	}
}

func TestDedupeStrings(t *testing.T) {
	got := DedupeStrings([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DedupeStrings = %v, want %v", got, want)
	}

	if got := DedupeStrings(nil); len(got) != 0 {
		t.Fatalf("expected empty output for empty input, got %v", got)
	}
}
