package gen

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/proto"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata/golden")

func compareGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", "golden", name+".golden")
	if *update {
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(want), got)
}

func TestEmit_Golden(t *testing.T) {
	tests := []struct {
		golden string
		d      desc.Descriptor
		opts   proto.Options
	}{
		{
			golden: "bnfinit",
			d: desc.Descriptor{
				Name: "bnfinit", CName: "bnfinit0", Prototype: "GD0,L,DGp",
				Help: "bnfinit(P,{flag=0},{tech=[]}): compute the necessary data for future use in ideal and unit group computations.",
				Doc:  "Initializes the bnf structure attached to the number field defined by P.",
			},
		},
		{
			golden: "ellmodulareqn",
			d: desc.Descriptor{
				Name: "ellmodulareqn", CName: "ellmodulareqn", Prototype: "LDnDn",
				Help: "ellmodulareqn(N,{x},{y}): return a vector [eqn, t] where eqn is a modular equation of level N.",
				Doc:  "Given a prime N < 500, return a vector [P, t] where P(x,y) is a modular\nequation of level N.",
			},
		},
		{
			golden: "setrand",
			d: desc.Descriptor{
				Name: "setrand", CName: "setrand", Prototype: "vG",
				Help: "setrand(n): reset the seed of the random number generator to n.",
				Doc:  "Reset the seed of the random number generator to n.",
			},
		},
		{
			golden: "polcoef",
			d: desc.Descriptor{
				Name: "polcoef", CName: "polcoef", Prototype: "GLDn",
				Help: "polcoef(x,n,{v}): coefficient of degree n of x.",
				Doc:  "Coefficient of degree n of the polynomial x, with respect to v.",
			},
			opts: proto.Options{Deprecated: map[string]proto.Deprecation{"v": {Ticket: 18203}}},
		},
		{
			golden: "strprintf",
			d: desc.Descriptor{
				Name: "Strprintf", CName: "Strprintf", Prototype: "ss*",
				Help: "Strprintf(fmt,{args}*): returns a string built from the remaining arguments.",
				Doc:  "Returns a string built from the remaining arguments according to the\nformat fmt.\n\nSee printf.",
			},
		},
		{
			golden: "variable",
			d: desc.Descriptor{
				Name: "variable", CName: "gpolvar", Prototype: "DG",
				Help: "variable({x}): main variable of object x.",
				Doc:  "Main variable of object x.",
			},
		},
		{
			golden: "zetamult",
			d: desc.Descriptor{
				Name: "zetamult", CName: "zetamult_interpolate", Prototype: "GD0,G,p",
				Help: "zetamult(s,{t=0}): multiple zeta value.",
				Doc:  "Multiple zeta value at s, interpolated at t.",
			},
		},
		{
			golden: "readstr",
			d: desc.Descriptor{
				Name: "readstr", CName: "gp_read_str_multiline", Prototype: "Ds",
				Help: "readstr({s}): read a GP expression from s.",
				Doc:  "Read a GP expression from the string s.",
			},
		},
		{
			golden: "getrand",
			d: desc.Descriptor{
				Name: "getrand", CName: "getrand", Prototype: "",
				Help: "getrand(): current value of random number seed.",
				Doc:  "Current value of the seed used by the random number generator.",
			},
		},
		{
			golden: "moebius",
			d: desc.Descriptor{
				Name: "moebius", CName: "moebius", Prototype: "lG",
				Help: "moebius(x): Moebius function of x.",
				Doc:  "Moebius function of x.",
			},
		},
		{
			golden: "poldegree",
			d: desc.Descriptor{
				Name: "poldegree", CName: "poldegree", Prototype: "lGDn",
				Help: "poldegree(x,{v}): degree of the polynomial x.",
				Doc:  "Degree of the polynomial x in the main variable if v is omitted.",
			},
		},
		{
			golden: "member_bnf",
			d: desc.Descriptor{
				Name: "member_bnf", CName: "member_bnf", Prototype: "mG",
				Help: "member_bnf(x): bnf structure of x.",
			},
		},
		{
			golden: "exp",
			d: desc.Descriptor{
				Name: "exp", CName: "gexp", Prototype: "Gp",
				Help: "exp(x): exponential of x.",
				Doc:  "Exponential of x.",
			},
		},
		{
			golden: "eta",
			d: desc.Descriptor{
				Name: "eta", CName: "eta0", Prototype: "GD0,L,P",
				Help: "eta(x,{flag=0}): if flag=0, eta function without the q^(1/24).",
				Doc:  "Eta function, without the q^(1/24).",
			},
		},
		{
			golden: "lfun",
			d: desc.Descriptor{
				Name: "lfun", CName: "lfun0", Prototype: "GGD0,L,b",
				Help: "lfun(L,s,{D=0}): compute the L-function.",
				Doc:  "L-function.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			got, err := EmitMethod(tt.d, tt.d.Doc, tt.opts)
			require.NoError(t, err)
			compareGolden(t, tt.golden, got)
		})
	}
}

func TestEmit_DocEscaping(t *testing.T) {
	d := desc.Descriptor{Name: "f", CName: "f", Prototype: "G", Help: "f(x)"}
	got, err := EmitMethod(d, `say """hi"""`, proto.Options{})
	require.NoError(t, err)
	assert.Contains(t, got, `        say ""\"hi""\"`+"\n")
}

func TestEmit_DeprecationOfScalar(t *testing.T) {
	d := desc.Descriptor{Name: "f", CName: "f0", Prototype: "GD0,L,", Help: "f(x,{flag=0})"}
	got, err := EmitMethod(d, "", proto.Options{
		Deprecated: map[string]proto.Deprecation{"flag": {Ticket: 20000, Message: "use g() instead"}},
	})
	require.NoError(t, err)
	assert.Contains(t, got, "        if flag != 0:\n"+
		"            from sage.misc.superseded import deprecation\n"+
		"            deprecation(20000, \"use g() instead\")\n")
}

func TestEmit_DeprecationOfRequired(t *testing.T) {
	d := desc.Descriptor{Name: "f", CName: "f0", Prototype: "GL", Help: "f(x,n)"}
	got, err := EmitMethod(d, "", proto.Options{
		Deprecated: map[string]proto.Deprecation{"n": {Ticket: 1}},
	})
	require.NoError(t, err)
	assert.Contains(t, got, "        from sage.misc.superseded import deprecation\n"+
		"        deprecation(1, \"the argument n in f() is deprecated\")\n")
}

func TestEmit_Defects(t *testing.T) {
	e, err := NewEmitter()
	require.NoError(t, err)
	d := desc.Descriptor{Name: "f", CName: "f"}

	tests := []struct {
		name string
		r    Routed
	}{
		{
			name: "engine without self",
			r: Routed{
				Receiver: ReceiverEngine,
				Args:     proto.Arguments{{Kind: proto.KindLong, Name: "n"}},
			},
		},
		{
			name: "value without receiver",
			r:    Routed{Receiver: ReceiverValue},
		},
		{
			name: "unsupported GEN default",
			r: Routed{
				Receiver: ReceiverValue,
				Args: proto.Arguments{
					{Kind: proto.KindGEN, Name: "x"},
					{Kind: proto.KindGEN, Name: "y", Default: "gen_1", Index: 1},
				},
			},
		},
		{
			name: "self passed to C",
			r: Routed{
				Receiver: ReceiverEngine,
				Args:     proto.Arguments{{Kind: proto.KindSelf, Name: "self"}},
				CallArgs: proto.Arguments{{Kind: proto.KindSelf, Name: "self"}},
			},
		},
		{
			name: "unknown kind",
			r: Routed{
				Receiver: ReceiverValue,
				Args: proto.Arguments{
					{Kind: proto.KindGEN, Name: "x"},
					{Kind: proto.Kind(99), Name: "y", Index: 1},
				},
			},
		},
		{
			name: "unknown return",
			r: Routed{
				Receiver: ReceiverValue,
				Args:     proto.Arguments{{Kind: proto.KindGEN, Name: "x"}},
				Return:   proto.Return{Kind: proto.ReturnKind(42)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Emit(d, tt.r, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrEmissionDefect))
			assert.False(t, errors.IsExpected(err))
		})
	}
}

func TestEmitMethod_ParseErrorIsExpected(t *testing.T) {
	d := desc.Descriptor{Name: "forprime", CName: "forprime", Prototype: "vV=GDGI", Help: "forprime(p=a,{b},seq)"}
	_, err := EmitMethod(d, "", proto.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedPrototype))
	assert.True(t, errors.IsExpected(err))
}

func TestEmit_Deterministic(t *testing.T) {
	d := desc.Descriptor{Name: "bnfinit", CName: "bnfinit0", Prototype: "GD0,L,DGp", Help: "bnfinit(P,{flag=0},{tech=[]})"}
	first, err := EmitMethod(d, "doc", proto.Options{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := EmitMethod(d, "doc", proto.Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
