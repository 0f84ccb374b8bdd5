package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asokol123/yggdrasil-dns/application"
	"github.com/asokol123/yggdrasil-dns/protocol/pow"
	"github.com/asokol123/yggdrasil-dns/utils"
)

// Supported values of Config.Auth.
const (
	AuthECDSA = "ecdsa"
	AuthHMAC  = "hmac"
)

// Defaults written by NewConfig.
const (
	DefaultEndpoint       = "localhost:8080"
	DefaultTimeout        = 5 * time.Second
	DefaultPrivateKeyPath = "private.pem"
	DefaultPublicKeyPath  = "public.pem"
	DefaultSecretEnv      = "SECRET_KEY"
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("[dns] Invalid client configuration")

// Duration is a time.Duration that reads and writes as a string such
// as "5s" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config contains the client's configuration needed to build and send
// requests to a registry: where the registry listens and how long to
// wait for it, how hard to mine, which credential to authenticate with,
// and where to cache lookups.
//
// Relative key and cache paths are resolved against the directory of
// the config file.
type Config struct {
	*application.CommonConfig

	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
	PowZeros int      `toml:"pow_zeros"`
	Workers  int      `toml:"workers"`

	Auth           string `toml:"auth"`
	PrivateKeyPath string `toml:"private_key_path"`
	PublicKeyPath  string `toml:"public_key_path"`
	SecretEnv      string `toml:"secret_env"`

	// CachePath is the lookup cache database. Empty disables caching.
	CachePath string `toml:"cache_path,omitempty"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new client configuration at the
// given file path, with the given config encoding and
// default values for everything else.
func NewConfig(file, encoding string) *Config {
	return &Config{
		CommonConfig:   application.NewCommonConfig(file, encoding, application.DefaultLoggerConfig()),
		Endpoint:       DefaultEndpoint,
		Timeout:        Duration{DefaultTimeout},
		PowZeros:       pow.DefaultDifficulty,
		Workers:        1,
		Auth:           AuthECDSA,
		PrivateKeyPath: DefaultPrivateKeyPath,
		PublicKeyPath:  DefaultPublicKeyPath,
		SecretEnv:      DefaultSecretEnv,
	}
}

// Load initializes a client's configuration from the given file
// using the given encoding. Keys missing from the file keep their
// default values.
func (conf *Config) Load(file, encoding string) error {
	*conf = *NewConfig(file, encoding)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}
	if conf.Logger == nil {
		conf.Logger = application.DefaultLoggerConfig()
	}
	return conf.Validate()
}

// Save writes a client's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}

// Validate checks that every value is usable.
func (conf *Config) Validate() error {
	if strings.TrimSpace(conf.Endpoint) == "" {
		return fmt.Errorf("%w: empty endpoint", ErrInvalidConfig)
	}
	if conf.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: timeout must be positive (got %v)", ErrInvalidConfig, conf.Timeout)
	}
	if err := pow.ValidateDifficulty(conf.PowZeros); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if conf.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1 (got %d)", ErrInvalidConfig, conf.Workers)
	}
	switch conf.Auth {
	case AuthECDSA, AuthHMAC:
	default:
		return fmt.Errorf("%w: auth must be %q or %q (got %q)",
			ErrInvalidConfig, AuthECDSA, AuthHMAC, conf.Auth)
	}
	if conf.Logger != nil {
		if err := conf.Logger.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ResolvedPath returns path resolved against the config file's
// directory, with a leading "~/" expanded.
func (conf *Config) ResolvedPath(path string) string {
	return utils.ResolvePath(utils.ExpandHome(path), conf.Path)
}
