package analysis

import (
	"bytes"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/model"
)

func at(t *testing.T, s string) location.FileLocation {
	t.Helper()
	p, err := location.ParseFileLocation(s)
	require.NoError(t, err)
	return p
}

func build(t *testing.T, root string, doc *model.Document) *Analysis {
	t.Helper()
	a, err := Build(root, doc, Options{})
	require.NoError(t, err)
	return a
}

func TestInsideFunctionAndLoop(t *testing.T) {
	t.Parallel()

	a := build(t, "/project", &model.Document{
		Functions: []model.FunctionRecord{
			{Name: "f", Location: "a.py@1:0::10:0", Body: "a.py@2:4::10:0"},
		},
		Loops: []model.LoopRecord{{Body: "a.py@3:0::5:0"}},
	})

	assert.True(t, a.IsInsideFunction(at(t, "a.py@4:1")))
	assert.True(t, a.IsInsideLoop(at(t, "a.py@4:1")))
	assert.False(t, a.IsInsideLoop(at(t, "a.py@8:1")))
	assert.False(t, a.IsInsideFunction(at(t, "a.py@11:0")))
	assert.False(t, a.IsInsideFunction(at(t, "b.py@4:1")))
	assert.True(t, a.IsInsideLoop(at(t, "/project/a.py@4:1")))
	assert.Equal(t, []string{"a.py"}, a.Files())
}

func TestIsInsideVoidFunction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		returnType string
		want       bool
	}{
		{name: "void", returnType: "void", want: true},
		{name: "int", returnType: "int", want: false},
		{name: "unknown", returnType: "", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := build(t, "/p", &model.Document{
				Functions: []model.FunctionRecord{{
					Name:       "f",
					Location:   "m.c@1:0::9:1",
					Body:       "m.c@1:12::9:1",
					ReturnType: tt.returnType,
				}},
			})
			assert.Equal(t, tt.want, a.IsInsideVoidFunction(at(t, "m.c@3:2")))
			assert.False(t, a.IsInsideVoidFunction(at(t, "m.c@20:0")))
		})
	}
}

func TestStatementsAtLineAndInsertions(t *testing.T) {
	t.Parallel()

	a := build(t, "/p", &model.Document{
		Statements: []model.StatementRecord{
			{Kind: "expr", Content: "x = 1", Location: "a.py@5:0::5:5", Visible: []string{"x"}},
			{Kind: "expr", Content: "y = 2", Location: "a.py@5:7::5:12", Visible: []string{"x", "y"}},
			{Kind: "return_statement", Content: "return y", Location: "a.py@7:0::7:8"},
		},
	})

	got := a.Statements().AtLine(location.FileLine{Filename: "a.py", Line: 5})
	require.Len(t, got, 2)
	assert.Equal(t, "x = 1", got[0].Content)
	assert.Equal(t, "y = 2", got[1].Content)
	assert.Empty(t, a.Statements().AtLine(location.FileLine{Filename: "a.py", Line: 6}))

	ins := a.Insertions()
	require.Equal(t, a.Statements().Len(), ins.Len())
	for i, s := range a.Statements().All() {
		p := ins.All()[i]
		assert.Equal(t, s.Location.StopLocation(), p.Location)
		assert.True(t, s.Visible.Equal(p.Visible))
	}
	assert.Len(t, ins.AtLine(location.FileLine{Filename: "a.py", Line: 7}), 1)
}

func TestMergeDisjointFiles(t *testing.T) {
	t.Parallel()

	a := build(t, "/p", &model.Document{
		Functions: []model.FunctionRecord{{Name: "f", Location: "a.py@1:0::4:0", Body: "a.py@2:4::4:0"}},
	})
	b := build(t, "/p", &model.Document{
		Functions: []model.FunctionRecord{{Name: "g", Location: "b.py@1:0::4:0", Body: "b.py@2:4::4:0"}},
	})

	m, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.py"}, m.Files())
	assert.True(t, m.IsInsideFunction(at(t, "a.py@2:5")))
	assert.True(t, m.IsInsideFunction(at(t, "b.py@2:5")))
	assert.Equal(t, []string{"a.py"}, a.Files(), "merge must not mutate its receiver")
}

func TestMergeIdentity(t *testing.T) {
	t.Parallel()

	a := build(t, "/p", sampleDocument())
	m, err := a.Merge(Empty("/p"))
	require.NoError(t, err)
	assert.Equal(t, a.Document(), m.Document())
}

// membership flattens an analysis into sorted string sets for comparison
// independent of concatenation order.
func membership(a *Analysis) map[string][]string {
	out := map[string][]string{"files": append([]string{}, a.Files()...)}
	for _, f := range a.Functions().All() {
		out["functions"] = append(out["functions"], f.Name+" "+f.Location.String())
	}
	for _, s := range a.Statements().All() {
		out["statements"] = append(out["statements"], s.Location.String())
	}
	for _, r := range a.Loops().Bodies() {
		out["loops"] = append(out["loops"], r.String())
	}
	for _, p := range a.Insertions().All() {
		out["insertions"] = append(out["insertions"], p.Location.String())
	}
	for _, v := range out {
		sort.Strings(v)
	}
	return out
}

func TestMergeAssociative(t *testing.T) {
	t.Parallel()

	a := build(t, "/p", &model.Document{
		Files:     []string{"empty.py"},
		Functions: []model.FunctionRecord{{Name: "f", Location: "a.py@1:0::4:0", Body: "a.py@2:4::4:0"}},
		Loops:     []model.LoopRecord{{Body: "a.py@2:4::3:0"}},
	})
	b := build(t, "/p", &model.Document{
		Statements: []model.StatementRecord{{Kind: "pass_statement", Content: "pass", Location: "b.py@1:0::1:4"}},
	})
	c := build(t, "/p", &model.Document{
		Functions: []model.FunctionRecord{{Name: "h", Location: "a.py@6:0::9:0", Body: "a.py@7:4::9:0"}},
		Loops:     []model.LoopRecord{{Body: "a.py@2:4::3:0"}},
	})

	ab, err := a.Merge(b)
	require.NoError(t, err)
	left, err := ab.Merge(c)
	require.NoError(t, err)

	bc, err := b.Merge(c)
	require.NoError(t, err)
	right, err := a.Merge(bc)
	require.NoError(t, err)

	assert.Equal(t, membership(left), membership(right))
}

func TestMergeRejectsOtherRoot(t *testing.T) {
	t.Parallel()

	_, err := Empty("/p").Merge(Empty("/q"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrossRootMerge)
}

func TestBuildRelativizesAbsolutePaths(t *testing.T) {
	t.Parallel()

	a := build(t, "/work", &model.Document{
		Files:     []string{"/work/src/a.py", "/work/src/empty.py"},
		Functions: []model.FunctionRecord{{Name: "f", Location: "/work/src/a.py@1:0::4:0", Body: "/work/src/a.py@2:4::4:0"}},
	})
	assert.Equal(t, []string{"src/a.py", "src/empty.py"}, a.Files())
	assert.True(t, a.IsInsideFunction(at(t, "src/a.py@2:5")))
	assert.True(t, a.IsInsideFunction(at(t, "/work/src/a.py@2:5")))
	assert.False(t, a.IsInsideFunction(at(t, "/elsewhere/src/a.py@2:5")))
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     model.Document
		field   string
		pathErr bool
	}{
		{
			name:  "function without name",
			doc:   model.Document{Functions: []model.FunctionRecord{{Location: "a.py@1:0::2:0", Body: "a.py@1:5::2:0"}}},
			field: "name",
		},
		{
			name:  "function without body",
			doc:   model.Document{Functions: []model.FunctionRecord{{Name: "f", Location: "a.py@1:0::2:0"}}},
			field: "body",
		},
		{
			name:  "body outside definition",
			doc:   model.Document{Functions: []model.FunctionRecord{{Name: "f", Location: "a.py@1:0::2:0", Body: "a.py@1:5::9:0"}}},
			field: "body",
		},
		{
			name:  "statement without kind",
			doc:   model.Document{Statements: []model.StatementRecord{{Content: "x", Location: "a.py@1:0::1:1"}}},
			field: "kind",
		},
		{
			name:  "statement without content",
			doc:   model.Document{Statements: []model.StatementRecord{{Kind: "expr", Location: "a.py@1:0::1:1"}}},
			field: "content",
		},
		{
			name:  "garbled loop",
			doc:   model.Document{Loops: []model.LoopRecord{{Body: "a.py@3"}}},
			field: "body",
		},
		{
			name:    "outside root",
			doc:     model.Document{Loops: []model.LoopRecord{{Body: "/other/a.py@1:0::2:0"}}},
			field:   "body",
			pathErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := Build("/p", &tt.doc, Options{})
			require.Error(t, err)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrMalformedRecord)

			var re *RecordError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.field, re.Field)
			if tt.pathErr {
				assert.ErrorIs(t, err, location.ErrPathNormalization)
			}
		})
	}
}

func TestStatementSourceAlias(t *testing.T) {
	t.Parallel()

	a := build(t, "", &model.Document{
		Statements: []model.StatementRecord{{Kind: "CtInvocationImpl", Source: "foo()", Location: "A.java@3:4::3:9"}},
	})
	require.Equal(t, 1, a.Statements().Len())
	s := a.Statements().All()[0]
	assert.Equal(t, "foo()", s.Content)
	assert.True(t, s.Reads.IsEmpty())
	assert.NotNil(t, s.Reads.Names())
}

func TestWithRelativeLocations(t *testing.T) {
	t.Parallel()

	a := build(t, "", &model.Document{
		Files:     []string{"/work/src/a.py"},
		Functions: []model.FunctionRecord{{Name: "f", Location: "/work/src/a.py@1:0::4:0", Body: "/work/src/a.py@2:4::4:0"}},
		Loops:     []model.LoopRecord{{Body: "/work/src/a.py@2:4::3:0"}},
	})
	rel, err := a.WithRelativeLocations("/work")
	require.NoError(t, err)
	assert.Equal(t, "/work", rel.Root())
	assert.Equal(t, []string{"src/a.py"}, rel.Files())
	assert.True(t, rel.IsInsideLoop(at(t, "src/a.py@2:5")))
	assert.True(t, rel.IsInsideLoop(at(t, "/work/src/a.py@2:5")))

	_, err = a.WithRelativeLocations("/nowhere")
	assert.ErrorIs(t, err, location.ErrPathNormalization)
}

func sampleDocument() *model.Document {
	return &model.Document{
		Root:  "/p",
		Files: []string{"a.py", "b.py"},
		Functions: []model.FunctionRecord{
			{Name: "f", Location: "a.py@1:0::10:0", Body: "a.py@2:4::10:0", ReturnType: "void", Global: true},
		},
		Statements: []model.StatementRecord{
			{
				Kind:      "expression_statement",
				Content:   "x = y + 1",
				Canonical: "x = y + 1",
				Location:  "a.py@2:4::2:13",
				Reads:     []string{"y"},
				Writes:    []string{"x"},
				Visible:   []string{"x", "y"},
				Decls:     []string{"x"},
			},
		},
		Loops: []model.LoopRecord{{Body: "a.py@3:8::5:0"}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	a := build(t, "/p", sampleDocument())

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))
	assert.Contains(t, buf.String(), `"return-type": "void"`)

	b, err := Load(&buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, a.Document(), b.Document())
	assert.Equal(t, "/p", b.Root())
	assert.True(t, b.IsInsideVoidFunction(at(t, "a.py@4:0")))
	assert.Equal(t, 1, b.Insertions().Len())
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("{"), Options{})
	assert.Error(t, err)
}

func TestBuildLogsStatementCounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a, err := Build("/p", sampleDocument(), Options{Logger: logger})
	require.NoError(t, err)
	a.Insertions().InFile("a.py")

	out := buf.String()
	assert.Contains(t, out, "statements in file")
	assert.Contains(t, out, "computing insertion points")
	assert.Contains(t, out, "finding insertion points in file")
}
