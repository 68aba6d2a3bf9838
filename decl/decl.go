// Package decl collects the C symbols declared to the binding layer
// (decl.pxi, declinl.pxi). Only functions declared there can be called
// from generated code.
package decl

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/teranos/parigen/errors"
)

// A declaration looks like "    GEN     bnfinit0(GEN P, long flag, GEN data, long prec)"
var declRE = regexp.MustCompile(` ([A-Za-z][A-Za-z0-9_]*)\(`)

// Symbols is an immutable set of declared C symbol names.
type Symbols struct {
	names map[string]struct{}
}

// NewSymbols builds a set from names.
func NewSymbols(names ...string) Symbols {
	s := Symbols{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Has reports whether name is declared.
func (s Symbols) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of declared symbols.
func (s Symbols) Len() int {
	return len(s.names)
}

// Names returns the symbols in sorted order.
func (s Symbols) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the symbols of s and other.
func (s Symbols) Union(other Symbols) Symbols {
	u := Symbols{names: make(map[string]struct{}, len(s.names)+len(other.names))}
	for n := range s.names {
		u.names[n] = struct{}{}
	}
	for n := range other.names {
		u.names[n] = struct{}{}
	}
	return u
}

// ReadDecl collects every declared symbol in r.
func ReadDecl(r io.Reader) (Symbols, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, m := range declRE.FindAllStringSubmatch(scanner.Text(), -1) {
			names = append(names, m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return Symbols{}, errors.WrapStoreFailure(err, "scan declarations")
	}
	return NewSymbols(names...), nil
}

// LoadFiles reads and merges the declaration files at paths.
func LoadFiles(paths ...string) (Symbols, error) {
	all := NewSymbols()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return Symbols{}, errors.WithHint(
				errors.WrapStoreFailure(err, "failed to open declaration file"),
				"set decl.paths in parigen.toml to the binding's decl.pxi files",
			)
		}
		syms, err := ReadDecl(f)
		f.Close()
		if err != nil {
			return Symbols{}, errors.Wrapf(err, "read %s", path)
		}
		all = all.Union(syms)
	}
	return all, nil
}
