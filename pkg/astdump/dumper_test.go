package astdump

import (
	"bytes"
	"go/ast"
	"go/parser"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/tree"
)

const identitySource = `package p

func f(x int) int {
	return x
}
`

func parse(t *testing.T, name, src string) (*source.Set, *ast.File) {
	t.Helper()
	set := source.NewSet(afero.NewMemMapFs())
	f, err := set.ParseString(name, src, parser.ParseComments)
	require.NoError(t, err)
	return set, f
}

func dump(t *testing.T, set *source.Set, root ast.Node, cfg Config) (string, *Dumper) {
	t.Helper()
	var sb strings.Builder
	d := New(set, &sb, cfg, nil, nil)
	require.NoError(t, d.Dump(root))
	return sb.String(), d
}

func TestDumper(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.ShowSource = false

	out, d := dump(t, set, f, cfg)
	t.Log("\n" + out)

	expected := `
node 0; parent -1; level 0; File; name p
│
├── node 1; parent 0; level 1; Ident; name p
│
└── node 2; parent 0; level 1; FuncDecl; name f
    │
    ├── node 3; parent 2; level 2; Ident; name f
    │
    ├── node 4; parent 2; level 2; FuncType
    │   │
    │   ├── node 5; parent 4; level 3; FieldList
    │   │   │
    │   │   └── node 6; parent 5; level 4; Field; name x
    │   │       │
    │   │       ├── node 7; parent 6; level 5; Ident; name x
    │   │       │
    │   │       └── node 8; parent 6; level 5; Ident; name int
    │   │
    │   └── node 9; parent 4; level 3; FieldList
    │       │
    │       └── node 10; parent 9; level 4; Field
    │           │
    │           └── node 11; parent 10; level 5; Ident; name int
    │
    └── node 12; parent 2; level 2; BlockStmt
        │
        └── node 13; parent 12; level 3; ReturnStmt
            │
            └── node 14; parent 13; level 4; Ident; name x
`
	require.Equal(t, expected, "\n"+out)

	require.Equal(t, Stats{
		Visits: 15,
		Files:  1,
		Decls:  1,
		Stmts:  2,
		Exprs:  6,
		Types:  1,
		Fields: 4,
	}, d.Stats())
}

func TestDumper_Source(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.MaxDepth = 1

	out, _ := dump(t, set, f, cfg)

	expected := strings.Join([]string{
		"node 0; parent -1; level 0; File; name p",
		"│",
		"├── node 1; parent 0; level 1; Ident; name p",
		"│   ====",
		"│   p",
		"│   ====",
		"│",
		"└── node 2; parent 0; level 1; FuncDecl; name f",
		"    ====",
		"    func f(x int) int {",
		"    \treturn x",
		"    }",
		"    ====",
		"",
	}, "\n")
	require.Equal(t, expected, out)
}

func TestDumper_WrapSource(t *testing.T) {
	set, f := parse(t, "p.go", "package p\n\nvar v = alpha + beta + gamma\n")
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	cfg.WrapWidth = 10

	out, _ := dump(t, set, f, cfg)
	require.Contains(t, out, `└── node 2; parent 0; level 1; GenDecl
    ====
    var v =
    alpha +
    beta +
    gamma
    ====
`)
}

func TestDumper_Highlight(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	cfg.Highlight = true

	out, _ := dump(t, set, f, cfg)
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "node 2; parent 0; level 1; FuncDecl; name f")
}

func TestDumper_WithoutLastChild(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.EnableLastChild = false
	cfg.FlushLeft = false
	cfg.ShowSource = false

	out, _ := dump(t, set, f, cfg)
	require.NotContains(t, out, "└──")
	require.True(t, strings.HasPrefix(out, "├── node 0; parent -1; level 0; File; name p\n│   │\n│   ├── node 1;"), out)
}

func TestDumper_Verbose(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.Verbose = true
	cfg.MaxDepth = 1

	var out, logs bytes.Buffer
	d := New(set, &out, cfg, log.NewLogfmtLogger(&logs), nil)
	require.NoError(t, d.Dump(f))

	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		require.True(t, strings.HasPrefix(line, "TREE: "), line)
	}
	require.Equal(t, 3, strings.Count(logs.String(), `msg="visiting node"`))
	require.Contains(t, logs.String(), "kind=FuncDecl")
}

const counterSource = `package stack

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when popping an empty stack.
var ErrEmpty = errors.New("empty stack")

type Stack[T any] struct {
	items []T // backing storage
}

func (s *Stack[T]) Push(v T) { s.items = append(s.items, v) }

func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmpty
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func describe(m map[string][]int, ch chan<- struct{}) {
	for k, v := range m {
		switch {
		case len(v) > 1:
			fmt.Println(k, "many")
		default:
			fmt.Println(k, "few")
		}
	}
	close(ch)
}
`

func TestDumper_StatsMatchCounter(t *testing.T) {
	set, f := parse(t, "stack.go", counterSource)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	var sb strings.Builder
	d := New(set, &sb, DefaultConfig(), nil, m)
	require.NoError(t, d.Dump(f))

	counted := Count(f)
	if diff := cmp.Diff(counted, d.Stats()); diff != "" {
		t.Fatalf("dumper and counter disagree (-counter +dumper):\n%s", diff)
	}
	require.Equal(t, counted.Visits, strings.Count(sb.String(), "node "))

	for _, c := range Categories {
		require.Equal(t, float64(counted.Get(c)), testutil.ToFloat64(m.nodes.WithLabelValues(string(c))), string(c))
	}
	require.Equal(t, 1.0, testutil.ToFloat64(m.dumps))

	// A second dump accumulates.
	require.NoError(t, d.Dump(f))
	require.Equal(t, 2*counted.Visits, d.Stats().Visits)
	require.Equal(t, 2.0, testutil.ToFloat64(m.dumps))
}

func TestBuildTree(t *testing.T) {
	set, f := parse(t, "p.go", identitySource)
	cfg := DefaultConfig()
	cfg.MaxDepth = 1

	root := BuildTree(set, f, cfg)
	require.Equal(t, "File #0 name=p parent=-1 level=0 category=file pos=p.go:1:1", root.Header())
	require.Empty(t, root.Comments)
	require.Len(t, root.Children, 2)

	fn := root.Children[1]
	require.Equal(t, "FuncDecl #2 name=f parent=0 level=1 category=decl pos=p.go:3:1", fn.Header())
	require.Equal(t, []string{"func f(x int) int {", "\treturn x", "}"}, fn.Comments)
	require.Empty(t, fn.Children)

	// Unlimited depth yields the same number of nodes as the counter.
	cfg.MaxDepth = 0
	var n int
	BuildTree(set, f, cfg).Walk(func(*tree.Node, int) bool {
		n++
		return true
	})
	require.Equal(t, Count(f).Visits, n)
}
