package core

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"Food", "food", "FOOD"}, []string{"food"}},
		{[]string{"  Rent ", "utilities"}, []string{"rent", "utilities"}},
		{[]string{"", "   "}, nil},
		{nil, nil},
		{[]string{"b", "a", "B"}, []string{"b", "a"}}, // first-seen order kept
	}
	for i, tc := range cases {
		got := NormalizeTags(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}
