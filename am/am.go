// Package am ("as configured") loads the parigen configuration from
// parigen.toml files, PARIGEN_* environment variables and built-in defaults.
package am

import (
	"path/filepath"

	"github.com/teranos/parigen/decl"
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/filter"
	"github.com/teranos/parigen/proto"
)

// Config represents the parigen configuration
type Config struct {
	Desc         DescConfig          `mapstructure:"desc" toml:"desc"`
	Decl         DeclConfig          `mapstructure:"decl" toml:"decl"`
	Output       OutputConfig        `mapstructure:"output" toml:"output"`
	Filter       FilterConfig        `mapstructure:"filter" toml:"filter"`
	Docs         DocsConfig          `mapstructure:"docs" toml:"docs"`
	Store        StoreConfig         `mapstructure:"store" toml:"store"`
	Library      LibraryConfig       `mapstructure:"library" toml:"library"`
	Deprecations []DeprecationConfig `mapstructure:"deprecations" toml:"deprecations,omitempty"`
}

// DescConfig locates the function database
type DescConfig struct {
	Path string `mapstructure:"path" toml:"path"` // pari.desc
}

// DeclConfig lists the Cython declaration files whose symbols may be called
type DeclConfig struct {
	Paths []string `mapstructure:"paths" toml:"paths"`
}

// OutputConfig names the generated files
type OutputConfig struct {
	Dir      string `mapstructure:"dir" toml:"dir"`
	Gen      string `mapstructure:"gen" toml:"gen"`           // default: auto_gen.pxi
	Instance string `mapstructure:"instance" toml:"instance"` // default: auto_instance.pxi
	Report   string `mapstructure:"report" toml:"report,omitempty"`
}

// FilterConfig is the eligibility policy
type FilterConfig struct {
	Deny             []filter.DenyRule `mapstructure:"deny" toml:"deny"`
	Classes          []string          `mapstructure:"classes" toml:"classes"`
	ExcludedSections []string          `mapstructure:"excluded_sections" toml:"excluded_sections"`
}

// DocsConfig selects where method documentation comes from
type DocsConfig struct {
	// Command is run once per function; empty uses the Doc field of pari.desc.
	// "{function}" is replaced by the function name, otherwise it is appended.
	Command string `mapstructure:"command" toml:"command,omitempty"`
}

// Store backends
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// StoreConfig selects the descriptor store
type StoreConfig struct {
	Backend  string `mapstructure:"backend" toml:"backend"`   // file or sqlite
	Database string `mapstructure:"database" toml:"database"` // SQLite path for the sqlite backend
}

// LibraryConfig describes the PARI library being wrapped
type LibraryConfig struct {
	Version string `mapstructure:"version" toml:"version,omitempty"` // selects version-gated deny rules
}

// DeprecationConfig flags one argument of one function as deprecated
type DeprecationConfig struct {
	Function string `mapstructure:"function" toml:"function"`
	Argument string `mapstructure:"argument" toml:"argument"`
	Ticket   int    `mapstructure:"ticket" toml:"ticket"`
	Message  string `mapstructure:"message" toml:"message,omitempty"`
}

// GenPath is the output file for methods of gen
func (c *Config) GenPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Gen)
}

// InstancePath is the output file for methods of PariInstance
func (c *Config) InstancePath() string {
	return filepath.Join(c.Output.Dir, c.Output.Instance)
}

// DeprecationMap indexes deprecations by function, then argument
func (c *Config) DeprecationMap() map[string]map[string]proto.Deprecation {
	if len(c.Deprecations) == 0 {
		return nil
	}
	out := make(map[string]map[string]proto.Deprecation)
	for _, d := range c.Deprecations {
		if out[d.Function] == nil {
			out[d.Function] = make(map[string]proto.Deprecation)
		}
		out[d.Function][d.Argument] = proto.Deprecation{Ticket: d.Ticket, Message: d.Message}
	}
	return out
}

// FilterConfig builds the filter policy for the given declared symbols
func (c *Config) FilterConfig(symbols decl.Symbols) filter.Config {
	classes := make([]desc.Class, len(c.Filter.Classes))
	for i, s := range c.Filter.Classes {
		classes[i] = desc.Class(s)
	}
	sections := make([]desc.Section, len(c.Filter.ExcludedSections))
	for i, s := range c.Filter.ExcludedSections {
		sections[i] = desc.Section(s)
	}
	return filter.Config{
		Deny:             append([]filter.DenyRule(nil), c.Filter.Deny...),
		Symbols:          symbols,
		Classes:          classes,
		ExcludedSections: sections,
		LibraryVersion:   c.Library.Version,
	}
}

// Path settings resolved by resolvePaths
const (
	keyDescPath      = "desc.path"
	keyDeclPaths     = "decl.paths"
	keyOutputDir     = "output.dir"
	keyOutputReport  = "output.report"
	keyStoreDatabase = "store.database"
)

// resolvePaths makes relative paths absolute. baseFor returns the directory
// a key's value is relative to; "" leaves it relative to the working directory.
func (c *Config) resolvePaths(baseFor func(key string) string) {
	abs := func(key, p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		base := baseFor(key)
		if base == "" {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Desc.Path = abs(keyDescPath, c.Desc.Path)
	for i, p := range c.Decl.Paths {
		c.Decl.Paths[i] = abs(keyDeclPaths, p)
	}
	c.Output.Dir = abs(keyOutputDir, c.Output.Dir)
	c.Output.Report = abs(keyOutputReport, c.Output.Report)
	c.Store.Database = abs(keyStoreDatabase, c.Store.Database)
}

// relativeTo resolves every key against dir.
func relativeTo(dir string) func(string) string {
	return func(string) string { return dir }
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
