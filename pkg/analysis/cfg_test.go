package analysis

import (
	"go/ast"
	"go/parser"
	"strings"
	"testing"

	"github.com/grafana/regexp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/grafana/treedump/pkg/source"
)

const funcsSource = `package p

import "os"

type T struct{}

func straight() {
	x := 1
	_ = x
}

func branch(x int) int {
	if x > 0 {
		return 1
	}
	return 0
}

func loop(n int) (s int) {
	for i := 0; i < n; i++ {
		s += i
	}
	return
}

func (t *T) sw(x int) string {
	switch x {
	case 1:
		return "a"
	case 2:
		return "b"
	}
	return "c"
}

func mustPositive(x int) int {
	if x < 0 {
		panic("negative")
	}
	return x
}

func exit() {
	os.Exit(1)
}

func external(int) int
`

func parse(t *testing.T) (*source.Set, *ast.File) {
	t.Helper()
	set := source.NewSet(afero.NewMemMapFs())
	f, err := set.ParseString("p.go", funcsSource, parser.ParseComments)
	require.NoError(t, err)
	return set, f
}

func TestFunctions(t *testing.T) {
	_, f := parse(t)

	names := func(fns []Function) []string {
		var out []string
		for _, fn := range fns {
			out = append(out, fn.Name)
		}
		return out
	}

	require.Equal(t, []string{"straight", "branch", "loop", "T.sw", "mustPositive", "exit"}, names(Functions(f, nil)))
	require.Equal(t, []string{"T.sw"}, names(Functions(f, regexp.MustCompile(`^T\.`))))
	require.Empty(t, Functions(f, regexp.MustCompile(`^nothing$`)))
}

func TestComplexity(t *testing.T) {
	_, f := parse(t)

	for _, tc := range []struct {
		name     string
		expected int
	}{
		{"straight", 1},
		{"branch", 2},
		{"loop", 2},
		{"T.sw", 3},
		{"mustPositive", 2},
		{"exit", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fns := Functions(f, regexp.MustCompile("^"+regexp.QuoteMeta(tc.name)+"$"))
			require.Len(t, fns, 1)
			require.Equal(t, tc.expected, Complexity(BuildCFG(fns[0])))
		})
	}
}

func TestMayReturn(t *testing.T) {
	for _, tc := range []struct {
		call     string
		expected bool
	}{
		{`panic("x")`, false},
		{`os.Exit(1)`, false},
		{`log.Fatalf("%d", 1)`, false},
		{`log.Printf("%d", 1)`, true},
		{`fmt.Println()`, true},
		{`f()`, true},
		{`a.b.Exit()`, true},
	} {
		expr, err := parser.ParseExpr(tc.call)
		require.NoError(t, err)
		require.Equal(t, tc.expected, mayReturn(expr.(*ast.CallExpr)), tc.call)
	}
}

func TestCFGTree(t *testing.T) {
	set, f := parse(t)
	fns := Functions(f, regexp.MustCompile(`^branch$`))
	require.Len(t, fns, 1)

	root := CFGTree(set, fns[0], BuildCFG(fns[0]))
	require.Equal(t, "FUNCTION: branch complexity=2", root.Header())
	require.Len(t, root.Children, 3)

	entry := root.Children[0]
	require.Equal(t, "0", entry.ID)
	require.True(t, strings.HasSuffix(entry.Header(), " succs=(1, 2)"), entry.Header())
	require.Equal(t, []string{"x > 0"}, entry.Comments)

	require.Equal(t, []string{"return 1"}, root.Children[1].Comments)
	require.NotContains(t, root.Children[1].Header(), "succs=")
	require.Equal(t, []string{"return 0"}, root.Children[2].Comments)
}

func TestReport(t *testing.T) {
	_, f := parse(t)

	require.Equal(t, []Result{
		{Name: "branch", Complexity: 2},
		{Name: "loop", Complexity: 2},
		{Name: "T.sw", Complexity: 3},
		{Name: "mustPositive", Complexity: 2},
	}, Report(f, nil, 2))

	require.Equal(t, []Result{{Name: "T.sw", Complexity: 3}}, Report(f, nil, 3))
	require.Equal(t, []Result{{Name: "straight", Complexity: 1}}, Report(f, regexp.MustCompile("^str"), 0))
}
