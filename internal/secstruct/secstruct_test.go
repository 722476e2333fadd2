package secstruct

import (
	"reflect"
	"testing"
)

func TestFormat(t *testing.T) {
	type args struct {
		pairs   []Pair
		n       int
		strands []int
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			"hairpin",
			args{[]Pair{{0, 6}, {1, 5}}, 7, nil},
			"((...))",
			false,
		},
		{
			"pairs given in either order",
			args{[]Pair{{6, 0}, {5, 1}}, 7, nil},
			"((...))",
			false,
		},
		{
			"two strands",
			args{[]Pair{{0, 5}, {1, 4}}, 6, []int{3, 3}},
			"((.+.))",
			false,
		},
		{
			"unpaired",
			args{nil, 4, []int{4}},
			"....",
			false,
		},
		{
			"pair out of range",
			args{[]Pair{{0, 9}}, 4, nil},
			"",
			true,
		},
		{
			"nucleotide paired twice",
			args{[]Pair{{0, 3}, {0, 2}}, 4, nil},
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.args.pairs, tt.args.n, tt.args.strands)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		db      string
		want    []Pair
		wantErr bool
	}{
		{"hairpin", "((...))", []Pair{{0, 6}, {1, 5}}, false},
		{"two strands", "((.+.))", []Pair{{0, 5}, {1, 4}}, false},
		{"multiloop", "(()())", []Pair{{0, 5}, {1, 2}, {3, 4}}, false},
		{"unpaired", "...", nil, false},
		{"unbalanced close", "())", nil, true},
		{"unbalanced open", "((.)", nil, true},
		{"bad character", "(a)", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.db)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}
