// Package filter decides which PARI functions can be exposed.
package filter

import (
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/parigen/decl"
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
)

// Reason names why a descriptor was rejected.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDenied      Reason = "denied"
	ReasonInvalidName Reason = "invalid-name"
	ReasonUndeclared  Reason = "undeclared"
	ReasonClass       Reason = "class"
	ReasonSection     Reason = "section"
)

// Verdict is the outcome of checking one descriptor.
type Verdict struct {
	Function string
	Reason   Reason
}

// Eligible reports whether the descriptor passed every check.
func (v Verdict) Eligible() bool {
	return v.Reason == ReasonNone
}

// Err returns nil for eligible descriptors and an ErrFilterRejected otherwise.
func (v Verdict) Err() error {
	if v.Eligible() {
		return nil
	}
	return errors.Wrapf(errors.ErrFilterRejected, "%s (%s)", v.Function, v.Reason)
}

// DenyRule excludes a function by name. When Versions is set, the rule only
// applies to library versions matching that semver constraint.
type DenyRule struct {
	Name     string `mapstructure:"name" toml:"name"`
	Versions string `mapstructure:"versions" toml:"versions,omitempty"`
	Reason   string `mapstructure:"reason" toml:"reason,omitempty"`
}

// DefaultDeny lists functions that are never generated. New applies these
// on top of any configured rules.
var DefaultDeny = []DenyRule{
	{Name: "O", Reason: "O(p^e) needs special parser support"},
	{Name: "alias", Reason: "not needed and difficult documentation"},
	{Name: "listcreate", Reason: "redundant and obsolete"},
}

// DefaultClasses are the descriptor classes that are generated.
var DefaultClasses = []desc.Class{desc.ClassBasic, desc.ClassHighLevel}

// DefaultExcludedSections are never generated, whatever the configuration says.
var DefaultExcludedSections = []desc.Section{desc.SectionControl}

// Config is everything a Filter needs; it is copied at construction.
// Deny and ExcludedSections extend DefaultDeny and DefaultExcludedSections.
type Config struct {
	Deny             []DenyRule
	Symbols          decl.Symbols
	Classes          []desc.Class
	ExcludedSections []desc.Section
	// LibraryVersion selects version-gated deny rules; empty applies only
	// rules without a constraint.
	LibraryVersion string
}

// DefaultConfig returns the stock policy for the given declared symbols.
func DefaultConfig(symbols decl.Symbols) Config {
	return Config{
		Deny:             append([]DenyRule(nil), DefaultDeny...),
		Symbols:          symbols,
		Classes:          append([]desc.Class(nil), DefaultClasses...),
		ExcludedSections: append([]desc.Section(nil), DefaultExcludedSections...),
	}
}

var nameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Filter applies the eligibility policy. It is immutable and safe to share.
type Filter struct {
	deny     map[string]bool
	symbols  decl.Symbols
	classes  map[desc.Class]bool
	sections map[desc.Section]bool
}

// New builds a Filter, resolving version-gated deny rules once.
func New(cfg Config) (*Filter, error) {
	var version *semver.Version
	if cfg.LibraryVersion != "" {
		v, err := semver.NewVersion(cfg.LibraryVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid library version %q", cfg.LibraryVersion)
		}
		version = v
	}

	f := &Filter{
		deny:     make(map[string]bool, len(cfg.Deny)),
		symbols:  cfg.Symbols,
		classes:  make(map[desc.Class]bool, len(cfg.Classes)),
		sections: make(map[desc.Section]bool, len(cfg.ExcludedSections)),
	}

	rules := append(append([]DenyRule(nil), DefaultDeny...), cfg.Deny...)
	for _, rule := range rules {
		applies, err := rule.appliesTo(version)
		if err != nil {
			return nil, err
		}
		if applies {
			f.deny[rule.Name] = true
		}
	}
	for _, c := range cfg.Classes {
		f.classes[c] = true
	}
	for _, s := range DefaultExcludedSections {
		f.sections[s] = true
	}
	for _, s := range cfg.ExcludedSections {
		f.sections[s] = true
	}
	return f, nil
}

func (r DenyRule) appliesTo(version *semver.Version) (bool, error) {
	if r.Versions == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(r.Versions)
	if err != nil {
		return false, errors.Wrapf(err, "deny rule %q: invalid version constraint %q", r.Name, r.Versions)
	}
	if version == nil {
		return false, nil
	}
	return c.Check(version), nil
}

// Check runs every rule in order and reports the first failure.
func (f *Filter) Check(d desc.Descriptor) Verdict {
	v := Verdict{Function: d.Name}
	switch {
	case f.deny[d.Name]:
		v.Reason = ReasonDenied
	case !nameRE.MatchString(d.Name):
		// Operators and internals, e.g. "!_" or "_+_"
		v.Reason = ReasonInvalidName
	case !f.symbols.Has(d.CName):
		v.Reason = ReasonUndeclared
	case !f.classes[d.Class]:
		v.Reason = ReasonClass
	case f.sections[d.Section]:
		v.Reason = ReasonSection
	}
	return v
}

// Eligible reports whether d can be generated.
func (f *Filter) Eligible(d desc.Descriptor) bool {
	return f.Check(d).Eligible()
}
