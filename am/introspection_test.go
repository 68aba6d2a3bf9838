package am

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospect(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	ConfigSources["output.dir"] = SourceInfo{Source: SourceProject, Path: "/p/parigen.toml"}
	t.Setenv("PARIGEN_STORE_BACKEND", "sqlite")

	v := viper.New()
	SetDefaults(v)
	v.Set("output.dir", "gen")

	settings := Introspect(v)
	require.NotEmpty(t, settings)

	byKey := make(map[string]SettingInfo, len(settings))
	for i, s := range settings {
		if i > 0 {
			assert.Less(t, settings[i-1].Key, s.Key, "sorted by key")
		}
		byKey[s.Key] = s
	}

	assert.Equal(t, SourceProject, byKey["output.dir"].Source)
	assert.Equal(t, "gen", byKey["output.dir"].Value)
	assert.Equal(t, SourceEnvironment, byKey["store.backend"].Source)
	assert.Equal(t, "PARIGEN_STORE_BACKEND", byKey["store.backend"].SourcePath)
	assert.Equal(t, SourceDefault, byKey["desc.path"].Source)
}
