package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/proto"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name      string
		d         desc.Descriptor
		receiver  Receiver
		args      []string
		callArgs  []string
		returnKnd proto.ReturnKind
	}{
		{
			name:     "first GEN goes to value",
			d:        desc.Descriptor{Name: "bnfinit", Prototype: "GD0,L,DGp", Help: "bnfinit(P,{flag=0},{tech=[]})"},
			receiver: ReceiverValue,
			args:     []string{"P", "flag", "tech", "precision"},
			callArgs: []string{"P", "flag", "tech", "precision"},
		},
		{
			name:     "first long goes to engine",
			d:        desc.Descriptor{Name: "ellmodulareqn", Prototype: "LDnDn", Help: "ellmodulareqn(N,{x},{y})"},
			receiver: ReceiverEngine,
			args:     []string{"self", "N", "x", "y"},
			callArgs: []string{"N", "x", "y"},
		},
		{
			name:      "void with GEN goes to value",
			d:         desc.Descriptor{Name: "setrand", Prototype: "vG", Help: "setrand(n)"},
			receiver:  ReceiverValue,
			args:      []string{"n"},
			callArgs:  []string{"n"},
			returnKnd: proto.ReturnVoid,
		},
		{
			name:     "no arguments goes to engine",
			d:        desc.Descriptor{Name: "getrand", Prototype: "", Help: "getrand()"},
			receiver: ReceiverEngine,
			args:     []string{"self"},
			callArgs: []string{},
		},
		{
			name:     "implicit precision first goes to engine",
			d:        desc.Descriptor{Name: "Pi", Prototype: "p", Help: "Pi"},
			receiver: ReceiverEngine,
			args:     []string{"self", "precision"},
			callArgs: []string{"precision"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Route(tt.d, proto.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.receiver, r.Receiver)
			assert.Equal(t, tt.args, r.Args.Names())
			assert.Equal(t, tt.callArgs, r.CallArgs.Names())
			assert.Equal(t, tt.returnKnd, r.Return.Kind)
		})
	}
}

func TestRoute_EngineIndexesCountSelf(t *testing.T) {
	r, err := Route(desc.Descriptor{Prototype: "LDn", Help: "f(N,{x})"}, proto.Options{})
	require.NoError(t, err)
	for i, a := range r.Args {
		assert.Equal(t, i, a.Index)
	}
	assert.Equal(t, proto.KindSelf, r.Args[0].Kind)
}

func TestRoute_IgnoresCallerSelf(t *testing.T) {
	r, err := Route(desc.Descriptor{Prototype: "G", Help: "f(x)"}, proto.Options{Self: true})
	require.NoError(t, err)
	assert.Equal(t, ReceiverValue, r.Receiver)
	assert.Equal(t, []string{"x"}, r.Args.Names())
}

func TestRoute_ParseError(t *testing.T) {
	_, err := Route(desc.Descriptor{Prototype: "GI", Help: "f(x,code)"}, proto.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedPrototype))
}

func TestReceiver_String(t *testing.T) {
	assert.Equal(t, "value", ReceiverValue.String())
	assert.Equal(t, "engine", ReceiverEngine.String())
	assert.Equal(t, "gen", ClassName(ReceiverValue))
	assert.Equal(t, "PariInstance", ClassName(ReceiverEngine))
}
