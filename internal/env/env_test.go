package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string        `env:"TEST_HOST" default:"localhost"`
	Port    int           `env:"TEST_PORT" default:"8080"`
	Enabled bool          `env:"TEST_ENABLED" default:"true"`
	Timeout time.Duration `env:"TEST_TIMEOUT" default:"30s"`
	NoDef   string        `env:"TEST_NO_DEF"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HOST", "example.com")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_ENABLED", "false")
	t.Setenv("TEST_TIMEOUT", "1m30s")
	t.Setenv("TEST_NO_DEF", "foo")

	var cfg testConfig
	err := Load(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "foo", cfg.NoDef)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.NoDef)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	// An explicitly set empty variable overrides the default.
	t.Setenv("TEST_HOST", "")

	var cfg testConfig
	err := Load(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("TEST_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)
	require.Error(t, err)

	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "TEST_PORT", invalid.EnvVar)
	assert.Equal(t, "Port", invalid.Field)
}

func TestLoad_NotStructPointer(t *testing.T) {
	var s string
	assert.Error(t, Load(&s))
	assert.Error(t, Load(testConfig{}))
}

type validatedSection struct {
	Mode string `env:"TEST_MODE" default:"strict"`
}

func (s *validatedSection) Validate() error {
	if s.Mode != "strict" && s.Mode != "lenient" {
		return assert.AnError
	}
	return nil
}

type nestedConfig struct {
	Section validatedSection
	Name    string `env:"TEST_NAME" default:"app"`
}

func TestLoad_NestedValidation(t *testing.T) {
	t.Run("valid section passes", func(t *testing.T) {
		t.Setenv("TEST_MODE", "lenient")

		var cfg nestedConfig
		err := Load(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "lenient", cfg.Section.Mode)
		assert.Equal(t, "app", cfg.Name)
	})

	t.Run("invalid section fails the whole load", func(t *testing.T) {
		t.Setenv("TEST_MODE", "bogus")

		var cfg nestedConfig
		assert.Error(t, Load(&cfg))
	})
}
