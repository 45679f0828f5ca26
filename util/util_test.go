package util

import (
	"reflect"
	"testing"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		val   string
		want  bool
	}{
		{"found", []string{"debug", "info", "warn"}, "info", true},
		{"not found", []string{"debug", "info"}, "trace", false},
		{"empty slice", nil, "info", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(tc.slice, tc.val); got != tc.want {
				t.Errorf("Contains(%v, %q) = %v, want %v", tc.slice, tc.val, got, tc.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"duplicates collapse", []string{"b1:9092", "b2:9092", "b1:9092"}, []string{"b1:9092", "b2:9092"}},
		{"first occurrence wins", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"already unique", []string{"x", "y"}, []string{"x", "y"}},
		{"empty", []string{}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unique(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Unique(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestUnique_DoesNotMutateInput(t *testing.T) {
	in := []int{3, 3, 1}
	_ = Unique(in)
	if !reflect.DeepEqual(in, []int{3, 3, 1}) {
		t.Errorf("input mutated: %v", in)
	}
}
