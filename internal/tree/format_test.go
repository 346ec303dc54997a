package tree

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func testNamer(hash uint64) string {
	switch hash {
	case hashX1:
		return "x1"
	case hashX2:
		return "x2"
	case hashX3:
		return "x3"
	default:
		return defaultNamer(hash)
	}
}

func TestFormat_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := []struct {
		name string
		tr   Tree
	}{
		{
			name: "binary_arithmetic",
			tr:   build(fn(Add, fn(Mul, leafVar(hashX1, 1), leafVar(hashX2, 1)), leafConst(2.5))),
		},
		{
			name: "weighted_unary",
			tr:   build(fn(Sin, leafVar(hashX1, 0.5))),
		},
		{
			name: "nary_after_reduce",
			tr: func() Tree {
				tr := build(fn(Add, fn(Add, leafVar(hashX1, 1), leafVar(hashX2, 1)), leafConst(1)))
				tr.Reduce()
				return tr
			}(),
		},
		{
			name: "mixed_operators",
			tr:   build(fn(Div, fn(Sub, leafVar(hashX1, 1), leafConst(-1.25)), fn(Sqrt, leafVar(hashX2, 1)))),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g.Assert(t, tc.name, []byte(tc.tr.Format(testNamer)))
		})
	}
}

func TestFormat_DefaultNamer(t *testing.T) {
	tr := build(fn(Exp, leafVar(0xabcd1234, 1)))
	assert.Equal(t, "exp(v_1234)", tr.Format(nil))
}
