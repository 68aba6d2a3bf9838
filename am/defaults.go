package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/parigen/filter"
	"github.com/teranos/parigen/gen"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("desc.path", "pari.desc")
	v.SetDefault("decl.paths", []string{"decl.pxi"})

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.gen", gen.DefaultValueFile)
	v.SetDefault("output.instance", gen.DefaultEngineFile)
	v.SetDefault("output.report", "")

	v.SetDefault("filter.deny", defaultDeny())
	v.SetDefault("filter.classes", []string{"basic", "highlevel"})
	v.SetDefault("filter.excluded_sections", []string{"programming/control"})

	v.SetDefault("docs.command", "")

	v.SetDefault("store.backend", StoreFile)
	v.SetDefault("store.database", "parigen.db")

	v.SetDefault("library.version", "")
}

// defaultDeny renders filter.DefaultDeny the way a config file would spell it
func defaultDeny() []map[string]interface{} {
	out := make([]map[string]interface{}, len(filter.DefaultDeny))
	for i, r := range filter.DefaultDeny {
		out[i] = map[string]interface{}{
			"name":     r.Name,
			"versions": r.Versions,
			"reason":   r.Reason,
		}
	}
	return out
}

// Default returns the configuration used when no file or variable sets anything
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}
