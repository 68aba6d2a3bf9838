// Package desc reads the PARI function database (pari.desc) and turns its
// raw key/value records into typed function descriptors.
package desc

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

// Class is the pari.desc "Class" field.
type Class string

const (
	ClassBasic     Class = "basic"
	ClassHighLevel Class = "highlevel"
	ClassGP        Class = "gp"
	ClassGP2C      Class = "gp2c"
	// ClassUnknown is used when a record has no Class field
	ClassUnknown Class = "unknown"
)

// Section is the pari.desc "Section" field, e.g. "number_fields".
type Section string

const (
	// SectionControl holds if, while, return, break, ...
	SectionControl Section = "programming/control"
	// SectionUnknown is used when a record has no Section field
	SectionUnknown Section = "unknown"
)

// Descriptor describes one candidate PARI function.
type Descriptor struct {
	Name      string  // GP name, e.g. "bnfinit"
	CName     string  // C library symbol, e.g. "bnfinit0"
	Prototype string  // prototype code, e.g. "GD0,L,DGp"
	Help      string  // one-line GP help, e.g. "bnfinit(P,{flag=0},{tech=[]}): ..."
	Doc       string  // raw documentation
	Class     Class
	Section   Section
}

// Record keys as normalised by the reader: lower case, dashes removed.
const (
	KeyFunction  = "function"
	KeyCName     = "cname"
	KeyPrototype = "prototype"
	KeyHelp      = "help"
	KeyDoc       = "doc"
	KeyClass     = "class"
	KeySection   = "section"
)

// Record is one raw pari.desc entry. Keys not listed above are kept but ignored.
type Record map[string]string

// Name returns the record's function name, or "" when it has none.
func (r Record) Name() string {
	return r[KeyFunction]
}

// FromRecord builds a Descriptor. A record without a function name violates
// the store's contract and is reported as a store failure.
func FromRecord(r Record, log *zap.SugaredLogger) (Descriptor, error) {
	name, ok := r[KeyFunction]
	if !ok || name == "" {
		return Descriptor{}, errors.NewStoreFailure("record without %q key (%d fields)", KeyFunction, len(r))
	}

	d := Descriptor{
		Name:      name,
		CName:     r[KeyCName],
		Prototype: r[KeyPrototype],
		Help:      r[KeyHelp],
		Doc:       r[KeyDoc],
		Class:     ClassUnknown,
		Section:   SectionUnknown,
	}

	if cls, ok := r[KeyClass]; ok && cls != "" {
		d.Class = Class(cls)
	} else if log != nil {
		log.Warnw("Descriptor has no class, using sentinel",
			logger.FieldFunction, name,
			logger.FieldClass, ClassUnknown,
		)
	}

	if sec, ok := r[KeySection]; ok && sec != "" {
		d.Section = Section(sec)
	} else if log != nil {
		log.Warnw("Descriptor has no section, using sentinel",
			logger.FieldFunction, name,
			logger.FieldSection, SectionUnknown,
		)
	}

	return d, nil
}

// FromRecords converts all records and rejects duplicate names.
func FromRecords(records []Record, log *zap.SugaredLogger) ([]Descriptor, error) {
	seen := make(map[string]bool, len(records))
	out := make([]Descriptor, 0, len(records))
	for i, r := range records {
		d, err := FromRecord(r, log)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		if seen[d.Name] {
			return nil, errors.NewStoreFailure("duplicate function %q", d.Name)
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	return out, nil
}

// Sorted returns a copy of ds ordered by name.
func Sorted(ds []Descriptor) []Descriptor {
	out := make([]Descriptor, len(ds))
	copy(out, ds)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
