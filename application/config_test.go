package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	*CommonConfig
	Endpoint string `toml:"endpoint"`
}

func (conf *testConfig) Load(file, encoding string) error {
	conf.CommonConfig = NewCommonConfig(file, encoding, nil)
	return conf.GetLoader().Decode(conf)
}

func (conf *testConfig) Save() error {
	return conf.GetLoader().Encode(conf)
}

func TestTomlRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	conf := &testConfig{
		CommonConfig: NewCommonConfig(file, "toml", DefaultLoggerConfig()),
		Endpoint:     "localhost:8080",
	}
	if err := conf.Save(); err != nil {
		t.Fatal(err)
	}

	var got testConfig
	if err := got.Load(file, "toml"); err != nil {
		t.Fatal(err)
	}
	if got.Endpoint != "localhost:8080" {
		t.Fatal("Expect endpoint", "localhost:8080", "got", got.Endpoint)
	}
	if got.Logger == nil || got.Logger.Environment != "production" {
		t.Fatal("Expect production logger, got", got.Logger)
	}
	if got.GetPath() != file {
		t.Fatal("Expect path", file, "got", got.GetPath())
	}
}

func TestTomlSaveRefusesOverwrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(file, []byte("endpoint = \"a\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	conf := &testConfig{CommonConfig: NewCommonConfig(file, "toml", nil)}
	if err := conf.Save(); err == nil {
		t.Fatal("Expect an error when the config file exists")
	}
}

func TestTomlUnknownKeys(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	content := "endpoint = \"a\"\npow_zero = 5\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	var conf testConfig
	err := conf.Load(file, "toml")
	if err == nil || !strings.Contains(err.Error(), "pow_zero") {
		t.Fatal("Expect an unknown key error, got", err)
	}
}

func TestUnsupportedEncodingFallsBackToToml(t *testing.T) {
	if _, ok := newConfigLoader("yaml").(*TomlLoader); !ok {
		t.Fatal("Expect the TOML loader")
	}
}
