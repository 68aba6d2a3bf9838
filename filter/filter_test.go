package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/parigen/decl"
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := New(DefaultConfig(decl.NewSymbols("bnfinit0", "setrand", "alias0", "ifpari", "listcreate")))
	require.NoError(t, err)
	return f
}

func TestCheck(t *testing.T) {
	f := newTestFilter(t)

	tests := []struct {
		name string
		d    desc.Descriptor
		want Reason
	}{
		{
			name: "eligible basic function",
			d:    desc.Descriptor{Name: "bnfinit", CName: "bnfinit0", Class: desc.ClassBasic, Section: "number_fields"},
			want: ReasonNone,
		},
		{
			name: "eligible highlevel function",
			d:    desc.Descriptor{Name: "setrand", CName: "setrand", Class: desc.ClassHighLevel, Section: "programming/specific"},
			want: ReasonNone,
		},
		{
			name: "deny-list wins over everything",
			d:    desc.Descriptor{Name: "alias", CName: "alias0", Class: desc.ClassBasic, Section: "programming/specific"},
			want: ReasonDenied,
		},
		{
			name: "obsolete function",
			d:    desc.Descriptor{Name: "listcreate", CName: "listcreate", Class: desc.ClassBasic},
			want: ReasonDenied,
		},
		{
			name: "operator name",
			d:    desc.Descriptor{Name: "_+_", CName: "gadd", Class: desc.ClassBasic},
			want: ReasonInvalidName,
		},
		{
			name: "leading underscore",
			d:    desc.Descriptor{Name: "_bnfinit", CName: "bnfinit0", Class: desc.ClassBasic},
			want: ReasonInvalidName,
		},
		{
			name: "undeclared C symbol",
			d:    desc.Descriptor{Name: "bnfinit", CName: "BNFINIT0", Class: desc.ClassBasic},
			want: ReasonUndeclared,
		},
		{
			name: "gp2c class",
			d:    desc.Descriptor{Name: "bnfinit", CName: "bnfinit0", Class: desc.ClassGP2C},
			want: ReasonClass,
		},
		{
			name: "unknown class sentinel",
			d:    desc.Descriptor{Name: "bnfinit", CName: "bnfinit0", Class: desc.ClassUnknown},
			want: ReasonClass,
		},
		{
			name: "control flow even when basic",
			d:    desc.Descriptor{Name: "if", CName: "ifpari", Class: desc.ClassBasic, Section: desc.SectionControl},
			want: ReasonSection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := f.Check(tt.d)
			assert.Equal(t, tt.want, v.Reason)
			assert.Equal(t, tt.d.Name, v.Function)
			assert.Equal(t, tt.want == ReasonNone, f.Eligible(tt.d))
		})
	}
}

func TestVerdictErr(t *testing.T) {
	assert.NoError(t, Verdict{Function: "bnfinit"}.Err())

	err := Verdict{Function: "alias", Reason: ReasonDenied}.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFilterRejected))
	assert.True(t, errors.IsExpected(err))
	assert.Contains(t, err.Error(), "alias (denied)")
}

func TestVersionGatedDeny(t *testing.T) {
	cfg := DefaultConfig(decl.NewSymbols("ellglobalred"))
	cfg.Deny = append(cfg.Deny, DenyRule{Name: "ellglobalred", Versions: "< 2.9.0"})

	d := desc.Descriptor{Name: "ellglobalred", CName: "ellglobalred", Class: desc.ClassBasic}

	tests := []struct {
		version string
		denied  bool
	}{
		{"2.7.5", true},
		{"2.9.0", false},
		{"2.11.1", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg.LibraryVersion = tt.version
		f, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.denied, f.Check(d).Reason == ReasonDenied, "version %q", tt.version)
		assert.Equal(t, !tt.denied, f.Eligible(d), "version %q", tt.version)
		assert.Equal(t, ReasonDenied, f.Check(desc.Descriptor{Name: "alias"}).Reason, "unconditional rules always apply")
	}
}

func TestFixedRulesCannotBeRemoved(t *testing.T) {
	cfg := Config{
		Deny:    []DenyRule{{Name: "foo"}},
		Symbols: decl.NewSymbols("alias0", "ifpari", "foo", "listcreate", "O"),
		Classes: DefaultClasses,
	}
	f, err := New(cfg)
	require.NoError(t, err)

	for _, name := range []string{"O", "alias", "listcreate", "foo"} {
		d := desc.Descriptor{Name: name, CName: name, Class: desc.ClassBasic}
		assert.Equal(t, ReasonDenied, f.Check(d).Reason, name)
	}
	ifd := desc.Descriptor{Name: "if", CName: "ifpari", Class: desc.ClassBasic, Section: desc.SectionControl}
	assert.Equal(t, ReasonSection, f.Check(ifd).Reason)
}

func TestNewErrors(t *testing.T) {
	cfg := DefaultConfig(decl.NewSymbols())
	cfg.LibraryVersion = "not-a-version"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig(decl.NewSymbols())
	cfg.Deny = []DenyRule{{Name: "f", Versions: ">>> 2"}}
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestFiltersAreIndependent(t *testing.T) {
	a, err := New(DefaultConfig(decl.NewSymbols("f")))
	require.NoError(t, err)

	cfg := DefaultConfig(decl.NewSymbols("g"))
	cfg.Deny = append(cfg.Deny, DenyRule{Name: "f"})
	b, err := New(cfg)
	require.NoError(t, err)

	fd := desc.Descriptor{Name: "f", CName: "f", Class: desc.ClassBasic}
	assert.True(t, a.Eligible(fd))
	assert.False(t, b.Eligible(fd))
}
