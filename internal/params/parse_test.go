package params

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	type want struct {
		name    string
		version string
		keys    []string
		unknown []string
	}
	tests := []struct {
		name    string
		input   string
		want    want
		wantErr error
	}{
		{
			"comments and blank lines are skipped",
			`# a full line comment
   # an indented comment

name test
version 1.0 # inline
`,
			want{"test", "1.0", []string{"name", "version"}, nil},
			nil,
		},
		{
			"tabs separate keys and values",
			"name\ttabbed\nversion\t0.2\nKd_BP\t1e-4\t# Kd\n",
			want{"tabbed", "0.2", []string{"name", "version", "Kd_BP"}, nil},
			nil,
		},
		{
			"CRLF line endings",
			"name crlf\r\nversion 3\r\nmin_loop_length 2\r\n",
			want{"crlf", "3", []string{"name", "version", "min_loop_length"}, nil},
			nil,
		},
		{
			"unknown keys are kept",
			"name x\nversion 1\nsome_new_term 42 # not in the schema yet\n",
			want{"x", "1", []string{"name", "version", "some_new_term"}, []string{"some_new_term"}},
			nil,
		},
		{
			"free text name",
			"name my test set\nversion 1\n",
			want{"my test set", "1", []string{"name", "version"}, nil},
			nil,
		},
		{
			"missing name",
			"version 0.1\nK_coax 10\n",
			want{},
			ErrMissingKey,
		},
		{
			"missing version",
			"name x\n",
			want{},
			ErrMissingKey,
		},
		{
			"key without a value",
			"name x\nversion 1\nK_coax # nothing here\n",
			want{},
			ErrMalformedLine,
		},
		{
			"two values for a numeric key",
			"name x\nversion 1\nK_coax 10 20\n",
			want{},
			ErrMalformedLine,
		},
		{
			"non-numeric float",
			"name x\nversion 1\nC_init lots\n",
			want{},
			ErrBadValue,
		},
		{
			"float for an integer key",
			"name x\nversion 1\nmin_loop_length 2.5\n",
			want{},
			ErrBadValue,
		},
		{
			"bad boolean",
			"name x\nversion 1\nallow_strained_3WJ maybe\n",
			want{},
			ErrBadValue,
		},
		{
			"negative Kd",
			"name x\nversion 1\nKd_CG -0.1\n",
			want{},
			ErrOutOfRange,
		},
		{
			"zero effective molarity",
			"name x\nversion 1\nC_init 0\n",
			want{},
			ErrOutOfRange,
		},
		{
			"negative min loop length",
			"name x\nversion 1\nmin_loop_length -1\n",
			want{},
			ErrOutOfRange,
		},
		{
			"duplicate key",
			"name x\nversion 1\nK_coax 1\nK_coax 2\n",
			want{},
			ErrDuplicateKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Parse(strings.NewReader(tt.input), "test.params")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got.Name != tt.want.name || got.Version != tt.want.version {
				t.Errorf("Parse() = %s@%s, want %s@%s", got.Name, got.Version, tt.want.name, tt.want.version)
			}
			if !reflect.DeepEqual(got.Keys(), tt.want.keys) {
				t.Errorf("Parse() keys = %v, want %v", got.Keys(), tt.want.keys)
			}
			if !reflect.DeepEqual(got.Unknown(), tt.want.unknown) {
				t.Errorf("Parse() unknown = %v, want %v", got.Unknown(), tt.want.unknown)
			}
		})
	}
}

func TestParse_errorLocation(t *testing.T) {
	input := "name x\nversion 1\n\nC_eff_stacked_pair ten # oops\n"

	_, _, err := Parse(strings.NewReader(input), "bad.params")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want a *ParseError", err)
	}
	if perr.File != "bad.params" || perr.Line != 4 || perr.Key != "C_eff_stacked_pair" {
		t.Errorf("ParseError = {%s %d %s}, want {bad.params 4 C_eff_stacked_pair}", perr.File, perr.Line, perr.Key)
	}
	if msg := err.Error(); !strings.HasPrefix(msg, "bad.params:4: C_eff_stacked_pair: bad value") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestParse_duplicateKeyNamesBothLines(t *testing.T) {
	_, _, err := Parse(strings.NewReader("name a\nversion 1\nl 0.5\nl 0.6\n"), "dup.params")
	if err == nil || !strings.Contains(err.Error(), "dup.params:4") || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Parse() error = %v, want both line 3 and 4 named", err)
	}
}

func TestParse_warnings(t *testing.T) {
	input := "name x\nversion 1\nfoo True\nbar 12\nbaz 1.5\nqux hello\n"

	s, warnings, err := Parse(strings.NewReader(input), "w.params")
	if err != nil {
		t.Fatal(err)
	}

	if len(warnings) != 4 {
		t.Fatalf("Parse() warnings = %v, want 4", warnings)
	}
	if warnings[0].Line != 3 || warnings[0].Key != "foo" {
		t.Errorf("first warning = %v", warnings[0])
	}

	// unknown keys infer their kind
	wantKinds := map[string]Kind{"foo": Bool, "bar": Int, "baz": Float, "qux": String}
	for key, kind := range wantKinds {
		if v, _ := s.Get(key); v.Kind != kind {
			t.Errorf("%s kind = %v, want %v", key, v.Kind, kind)
		}
	}
}

func TestParse_inlineCommentStripped(t *testing.T) {
	s, _, err := Parse(strings.NewReader("name z\nversion 0.15\nK_coax 0.0 # turn off coax!?\n"), "")
	if err != nil {
		t.Fatal(err)
	}

	v, ok := s.Get("K_coax")
	if !ok {
		t.Fatal("K_coax missing")
	}
	if v.Kind != Float || v.Float != 0.0 || v.Raw != "0.0" {
		t.Errorf("K_coax = %+v, want float 0.0", v)
	}
	if e := s.Entries()[2]; e.Comment != "turn off coax!?" {
		t.Errorf("K_coax comment = %q", e.Comment)
	}
}

func TestParse_freeTextSpacing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double space", "name my  set\nversion 1\n", "my  set"},
		{"tab inside", "name my\tset\nversion 1\n", "my\tset"},
		{"trailing comment", "name  my  set   # label\nversion 1\n", "my  set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := Parse(strings.NewReader(tt.input), "")
			if err != nil {
				t.Fatal(err)
			}
			v, _ := s.Get("name")
			if v.Raw != tt.want || v.Str != tt.want || s.Name != tt.want {
				t.Errorf("name = %+v (Name %q), want %q", v, s.Name, tt.want)
			}

			back, _, err := Parse(strings.NewReader(Format(s)), "")
			if err != nil {
				t.Fatal(err)
			}
			if got, _ := back.Get("name"); got != v {
				t.Errorf("Parse(Format()) name = %+v, want %+v", got, v)
			}
		})
	}
}

func TestSet_accessors(t *testing.T) {
	s, _, err := Parse(strings.NewReader(`name acc
version 2
K_coax 100
min_loop_length 3
allow_strained_3WJ True
Kd_AU 0.002
`), "")
	if err != nil {
		t.Fatal(err)
	}

	if f, err := s.Float("K_coax"); err != nil || f != 100 {
		t.Errorf("Float(K_coax) = %v, %v, want 100", f, err)
	}
	if n, err := s.Int("min_loop_length"); err != nil || n != 3 {
		t.Errorf("Int(min_loop_length) = %v, %v, want 3", n, err)
	}
	if b, err := s.Bool("allow_strained_3WJ"); err != nil || !b {
		t.Errorf("Bool(allow_strained_3WJ) = %v, %v, want true", b, err)
	}
	if _, err := s.Float("l_coax"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Float(l_coax) error = %v, want ErrMissingKey", err)
	}
	if _, err := s.Int("K_coax"); !errors.Is(err, ErrBadValue) {
		t.Errorf("Int(K_coax) error = %v, want ErrBadValue", err)
	}
	if str, _ := s.Str("min_loop_length"); str != "3" {
		t.Errorf("Str(min_loop_length) = %q", str)
	}
	if got := s.KdKeys(); !reflect.DeepEqual(got, []string{"Kd_AU"}) {
		t.Errorf("KdKeys() = %v", got)
	}
	if s.ID() != "acc@2" {
		t.Errorf("ID() = %s", s.ID())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.params")
	if err := os.WriteFile(path, []byte("name local\nversion 9\nKd_BP 0.001\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Source != path || s.ID() != "local@9" {
		t.Errorf("Load() = %s from %s", s.ID(), s.Source)
	}

	if _, _, err := Load(filepath.Join(dir, "missing.params")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
