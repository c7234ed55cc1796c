package fallback_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/msgkit/fallback"
)

func TestResolve(t *testing.T) {
	l := fallback.Locales{
		Chains:  map[string][]string{"pt-PT": {"pt-BR"}, "de-AT": {"de-DE", "de"}},
		Default: "en",
	}
	assert.Equal(t, []string{"pt-BR", "en"}, l.Resolve("pt-PT"))
	assert.Equal(t, []string{"de-DE", "de", "en"}, l.Resolve("de-AT"))
	assert.Equal(t, []string{"en"}, l.Resolve("fr"))

	defaultOnly := fallback.Locales{Default: "en"}
	assert.Empty(t, defaultOnly.Resolve("en"))

	assert.Empty(t, fallback.Locales{}.Resolve("pl"))
	assert.Empty(t, fallback.Disabled.Resolve("pt-PT"))
}

func TestValidate(t *testing.T) {
	ok := fallback.Locales{Chains: map[string][]string{"pt-PT": {"pt-BR"}}, Default: "en"}
	assert.NoError(t, ok.Validate())

	bad := fallback.Locales{Chains: map[string][]string{"de": {"en", "de"}}}
	err := bad.Validate()
	assert.ErrorIs(t, err, fallback.ErrSelfFallback)
	assert.Contains(t, err.Error(), `"de"`)
}

func TestYAML(t *testing.T) {
	var cfg struct {
		Fallback fallback.Locales `yaml:"fallback_locales"`
	}
	err := yaml.Unmarshal([]byte(`
fallback_locales:
  pt-PT: pt-BR
  de-AT: [de-DE, de]
  default: en
`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"pt-BR", "en"}, cfg.Fallback.Resolve("pt-PT"))
	assert.Equal(t, []string{"de-DE", "de", "en"}, cfg.Fallback.Resolve("de-AT"))

	require.NoError(t, yaml.Unmarshal([]byte("fallback_locales: false\n"), &cfg))
	assert.True(t, cfg.Fallback.Disabled)

	assert.Error(t, yaml.Unmarshal([]byte("fallback_locales: true\n"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("fallback_locales:\n  de: {x: y}\n"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("fallback_locales:\n  default: [en, de]\n"), &cfg))

	out, err := yaml.Marshal(fallback.Locales{Chains: map[string][]string{"pt-PT": {"pt-BR"}}, Default: "en"})
	require.NoError(t, err)
	assert.Equal(t, "default: en\npt-PT: pt-BR\n", string(out))
}

func TestJSON(t *testing.T) {
	var l fallback.Locales
	require.NoError(t, json.Unmarshal([]byte(`{"pt-PT": "pt-BR", "default": "en"}`), &l))
	assert.Equal(t, []string{"pt-BR", "en"}, l.Resolve("pt-PT"))

	require.NoError(t, json.Unmarshal([]byte(`false`), &l))
	assert.True(t, l.Disabled)

	data, err := json.Marshal(fallback.Disabled)
	require.NoError(t, err)
	assert.Equal(t, "false", string(data))

	data, err = json.Marshal(fallback.Locales{Chains: map[string][]string{"de-AT": {"de-DE", "de"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"de-AT": ["de-DE", "de"]}`, string(data))
}
