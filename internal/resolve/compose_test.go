package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", `{}`, `{"plugins":[],"presets":[],"cacheDirectory":true}`},
		{"keeps lists", `{"presets":["p"],"plugins":["a"]}`, `{"presets":["p"],"plugins":["a"],"cacheDirectory":true}`},
		{"null and false lists", `{"plugins":null,"presets":false}`, `{"plugins":[],"presets":[],"cacheDirectory":true}`},
		{"explicit cacheDirectory kept", `{"cacheDirectory":false}`, `{"cacheDirectory":false,"plugins":[],"presets":[]}`},
		{"null cacheDirectory set", `{"cacheDirectory":null}`, `{"cacheDirectory":true,"plugins":[],"presets":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := value.ParseJSON([]byte(tt.in))
			require.NoError(t, err)
			before := in.String()

			got, err := Normalize(in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, before, in.String(), "input must not be modified")
		})
	}
}

func TestNormalize_RejectsNonListFields(t *testing.T) {
	_, err := Normalize(value.MapOf("presets", map[string]any{"env": true}))
	assert.Error(t, err)

	_, err = Normalize(value.List())
	assert.Error(t, err)
}

func TestStagePluginsInject(t *testing.T) {
	base := value.MapOf("plugins", []any{"a", []any{"b", map[string]any{"x": 1}}})
	p := DefaultStagePlugins()

	dev, err := p.Inject(base, stage.Develop, toolchain.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, `{"plugins":["react-hot-loader/babel","babel-plugin-remove-graphql-queries","a",["b",{"x":1}]]}`, dev.String())

	build, err := p.Inject(base, stage.BuildHTML, toolchain.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, `{"plugins":["babel-plugin-remove-graphql-queries","a",["b",{"x":1}]]}`, build.String())

	assert.Equal(t, `{"plugins":["a",["b",{"x":1}]]}`, base.String())
}

func TestCompose(t *testing.T) {
	base := value.MapOf(
		"cacheDirectory", true,
		"plugins", []any{"q", "a", []any{"rt", map[string]any{"helpers": false, "regenerator": true}}},
	)
	fragment := value.MapOf(
		"cacheDirectory", false,
		"plugins", []any{"q", "a", []any{"rt", map[string]any{"helpers": true}}},
	)

	got := Compose(fragment, base)

	assert.Equal(t, `{"cacheDirectory":false,"plugins":["q","a",["rt",{"helpers":true,"regenerator":true}]]}`, got.String())
}

func TestCompose_EmptyFragmentIsBase(t *testing.T) {
	base := value.MapOf("cacheDirectory", true, "plugins", []any{"a"}, "presets", []any{})
	assert.True(t, Compose(value.EmptyMap(), base).Equal(base))
}
