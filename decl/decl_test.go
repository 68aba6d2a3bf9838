package decl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/parigen/errors"
)

const declPxi = `cdef extern from "pari/pari.h":
    GEN     bnfinit0(GEN P, long flag, GEN data, long prec)
    void    setrand(GEN seed)
    GEN     ellmodulareqn(long N, long vx, long vy)
    long    itos(GEN x) ; long itos_or_0(GEN x)
    # comment(with) no leading identifier
    ctypedef long* GEN
`

func TestReadDecl(t *testing.T) {
	syms, err := ReadDecl(strings.NewReader(declPxi))
	require.NoError(t, err)

	for _, name := range []string{"bnfinit0", "setrand", "ellmodulareqn", "itos", "itos_or_0", "comment"} {
		assert.True(t, syms.Has(name), "expected %s", name)
	}
	assert.False(t, syms.Has("GEN"))
	assert.False(t, syms.Has("bnfinit"))
	assert.Equal(t, 6, syms.Len())
}

func TestSymbols(t *testing.T) {
	a := NewSymbols("b", "a")
	b := NewSymbols("c")
	u := a.Union(b)

	assert.Equal(t, []string{"a", "b", "c"}, u.Names())
	assert.Equal(t, 2, a.Len(), "union must not modify its receiver")
	assert.False(t, Symbols{}.Has("a"), "zero value is an empty set")
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	decl := filepath.Join(dir, "decl.pxi")
	declinl := filepath.Join(dir, "declinl.pxi")
	require.NoError(t, os.WriteFile(decl, []byte(declPxi), 0644))
	require.NoError(t, os.WriteFile(declinl, []byte("    GEN     gcopy(GEN x)\n"), 0644))

	syms, err := LoadFiles(decl, declinl)
	require.NoError(t, err)
	assert.True(t, syms.Has("setrand"))
	assert.True(t, syms.Has("gcopy"))

	_, err = LoadFiles(filepath.Join(dir, "missing.pxi"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreFailure))
}
