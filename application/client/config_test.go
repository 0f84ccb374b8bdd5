package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig("", "toml")

	require.NoError(t, conf.Validate())
	assert.Equal(t, DefaultEndpoint, conf.Endpoint)
	assert.Equal(t, 5*time.Second, conf.Timeout.Duration)
	assert.Equal(t, 4, conf.PowZeros)
	assert.Equal(t, 1, conf.Workers)
	assert.Equal(t, AuthECDSA, conf.Auth)
	assert.Equal(t, "SECRET_KEY", conf.SecretEnv)
	assert.Empty(t, conf.CachePath)
}

func TestConfigSaveLoad(t *testing.T) {
	// given:
	file := filepath.Join(t.TempDir(), "config.toml")
	conf := NewConfig(file, "toml")
	conf.Endpoint = "registry.example:9000"
	conf.Timeout = Duration{1500 * time.Millisecond}
	conf.PowZeros = 2
	conf.CachePath = "cache"

	// when:
	require.NoError(t, conf.Save())
	var got Config
	err := got.Load(file, "toml")

	// then:
	require.NoError(t, err)
	assert.Equal(t, "registry.example:9000", got.Endpoint)
	assert.Equal(t, 1500*time.Millisecond, got.Timeout.Duration)
	assert.Equal(t, 2, got.PowZeros)
	assert.Equal(t, "production", got.Logger.Environment)
	assert.Equal(t, filepath.Join(filepath.Dir(file), "cache"), got.ResolvedPath(got.CachePath))
}

func TestConfigPartialFileKeepsDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(
		"endpoint = \"http://10.0.0.5:8080\"\ntimeout = \"250ms\"\n"), 0644))

	var conf Config
	require.NoError(t, conf.Load(file, "toml"))

	assert.Equal(t, "http://10.0.0.5:8080", conf.Endpoint)
	assert.Equal(t, 250*time.Millisecond, conf.Timeout.Duration)
	assert.Equal(t, 4, conf.PowZeros)
	assert.Equal(t, AuthECDSA, conf.Auth)
	require.NotNil(t, conf.Logger)
	assert.Equal(t, filepath.Join(filepath.Dir(file), DefaultPrivateKeyPath),
		conf.ResolvedPath(conf.PrivateKeyPath))
}

func TestConfigRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"difficulty":  "pow_zeros = 65\n",
		"workers":     "workers = 0\n",
		"auth":        "auth = \"rsa\"\n",
		"timeout":     "timeout = \"0s\"\n",
		"duration":    "timeout = \"soon\"\n",
		"environment": "[logger]\nenv = \"staging\"\n",
		"unknown key": "pow_zero = 3\n",
	} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(file, []byte(content), 0644))

			var conf Config
			assert.Error(t, conf.Load(file, "toml"))
		})
	}
}

func TestConfigMissingFile(t *testing.T) {
	var conf Config
	assert.Error(t, conf.Load(filepath.Join(t.TempDir(), "nope.toml"), "toml"))
}
