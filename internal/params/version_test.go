package params

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0.1", "0.15", -1},
		{"0.15", "0.1", 1},
		{"0.1", "0.1", 0},
		{"0.1", "0.1.0", 0},
		{"1.0", "0.99", 1},
		{"1.0a", "1.0b", -1},
		{"2", "10", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		ref, name, version string
	}{
		{"zetafold", "zetafold", ""},
		{"zetafold@0.15", "zetafold", "0.15"},
		{"odd@name@1", "odd@name", "1"},
	}
	for _, tt := range tests {
		name, version := SplitRef(tt.ref)
		if name != tt.name || version != tt.version {
			t.Errorf("SplitRef(%q) = %q, %q, want %q, %q", tt.ref, name, version, tt.name, tt.version)
		}
	}
}
