package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/kaskara/internal/analysis"
	"github.com/phobologic/kaskara/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main.py", "src/main.py"},
		{"dotted name", "Foo.__init__", "Foo.__init__"},
		{"anonymous", "<anonymous>", "<anonymous>"},
		{"result list", "(int, error)", `"(int, error)"`},
		{"visible symbols", "x y z", "x y z"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	a, err := analysis.Build("/work/myrepo", &model.Document{
		Files: []string{"src/main.py", "src/empty.py"},
		Functions: []model.FunctionRecord{
			{Name: "main", Location: "src/main.py@1:0::6:0", Body: "src/main.py@2:4::6:0", ReturnType: "void"},
		},
		Statements: []model.StatementRecord{
			{Kind: "expression_statement", Content: "x = 1", Location: "src/main.py@2:4::2:9", Visible: []string{"x"}},
			{Kind: "for_statement", Content: "for y in z: pass", Location: "src/main.py@3:4::4:12", Visible: []string{"x", "y"}},
		},
		Loops: []model.LoopRecord{{Body: "src/main.py@4:8::4:12"}},
	}, analysis.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := Encode(a)
	want := []string{
		"root: /work/myrepo",
		"files[2]{path,functions,statements,loops}:",
		"  src/empty.py,0,0,0",
		"  src/main.py,1,2,1",
		"functions[1]{file,name,start,stop,return}:",
		"  src/main.py,main,1,6,void",
		"loops[1]{file,start,stop}:",
		"  src/main.py,4,4",
		"insertions[2]{file,line,column,visible}:",
		"  src/main.py,2,9,x",
		"  src/main.py,4,12,x y",
	}

	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(analysis.Empty(""))
	if !strings.HasPrefix(got, `root: ""`) {
		t.Errorf("expected quoted empty root, got:\n%s", got)
	}
	for _, section := range []string{
		"files[0]{path,functions,statements,loops}:",
		"functions[0]{file,name,start,stop,return}:",
		"loops[0]{file,start,stop}:",
		"insertions[0]{file,line,column,visible}:",
	} {
		if !strings.Contains(got, section) {
			t.Errorf("expected %q, got:\n%s", section, got)
		}
	}
}
