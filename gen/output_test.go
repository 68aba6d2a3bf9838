package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/parigen/errors"
)

func TestBanner(t *testing.T) {
	assert.Equal(t, `# This file is auto-generated by parigen

cdef class gen_auto:
    """
    Part of the :class:`+"`gen`"+` class containing auto-generated functions.

    This class is not meant to be used directly, use the derived class
    :class:`+"`gen`"+` instead.
    """
`, Banner(ReceiverValue))
	assert.True(t, strings.Contains(Banner(ReceiverEngine), "cdef class PariInstance_auto:\n"))
}

func TestOutputFile_Append(t *testing.T) {
	f := NewOutputFile("auto_gen.pxi", ReceiverValue)
	require.NoError(t, f.Append("abs", "    def abs(x):\n\n"))
	require.NoError(t, f.Append("acos", "    def acos(x):\n\n"))

	err := f.Append("abs", "    def abs(x):\n\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmissionDefect))

	assert.Equal(t, []string{"abs", "acos"}, f.Methods())
	assert.Equal(t, Banner(ReceiverValue)+"    def abs(x):\n\n    def acos(x):\n\n", string(f.Bytes()))
}
