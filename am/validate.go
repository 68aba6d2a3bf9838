package am

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/parigen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile:
		if c.Desc.Path == "" {
			return errors.New("desc.path cannot be empty with the file store")
		}
	case StoreSQLite:
		if c.Store.Database == "" {
			return errors.New("store.database cannot be empty with the sqlite store")
		}
	default:
		return errors.Newf("store.backend must be %q or %q, got %q", StoreFile, StoreSQLite, c.Store.Backend)
	}

	if len(c.Decl.Paths) == 0 {
		return errors.WithHint(
			errors.New("decl.paths cannot be empty"),
			"without declarations every function is rejected as undeclared",
		)
	}

	if c.Output.Gen == "" || c.Output.Instance == "" {
		return errors.New("output.gen and output.instance cannot be empty")
	}
	if c.GenPath() == c.InstancePath() {
		return errors.Newf("output.gen and output.instance must differ, both are %s", c.GenPath())
	}

	if len(c.Filter.Classes) == 0 {
		return errors.New("filter.classes cannot be empty (nothing would be generated)")
	}
	for i, rule := range c.Filter.Deny {
		if rule.Name == "" {
			return errors.Newf("filter.deny[%d].name cannot be empty", i)
		}
		if rule.Versions == "" {
			continue
		}
		if _, err := semver.NewConstraint(rule.Versions); err != nil {
			return errors.Wrapf(err, "filter.deny[%d] (%s): invalid versions %q", i, rule.Name, rule.Versions)
		}
	}

	if c.Library.Version != "" {
		if _, err := semver.NewVersion(c.Library.Version); err != nil {
			return errors.Wrapf(err, "library.version %q is not a version", c.Library.Version)
		}
	}

	for i, d := range c.Deprecations {
		if d.Function == "" || d.Argument == "" {
			return errors.Newf("deprecations[%d]: function and argument are required", i)
		}
		if d.Ticket <= 0 {
			return errors.Newf("deprecations[%d] (%s.%s): ticket must be > 0, got %d", i, d.Function, d.Argument, d.Ticket)
		}
	}

	return nil
}
