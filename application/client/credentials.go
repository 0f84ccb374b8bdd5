package client

import (
	"errors"
	"os"

	"github.com/asokol123/yggdrasil-dns/crypto/sign"
	"github.com/asokol123/yggdrasil-dns/protocol"
)

// ErrSecretUnset indicates that the environment variable naming the
// shared secret is not set.
var ErrSecretUnset = errors.New("[dns] Shared secret environment variable is not set")

// LoadCredential returns the credential conf selects: the ECDSA key
// read from PrivateKeyPath, or the shared secret read from the
// environment variable SecretEnv. The environment is read once, here.
// Failures are returned as *protocol.CredentialError.
func LoadCredential(conf *Config) (sign.Credential, error) {
	if conf.Auth == AuthHMAC {
		secret, err := loadSecret(conf.SecretEnv)
		if err != nil {
			return nil, err
		}
		return secret, nil
	}
	key, err := LoadSigningKey(conf)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// LoadSigningKey reads the ECDSA private key conf points to.
func LoadSigningKey(conf *Config) (*sign.PrivateKey, error) {
	path := conf.ResolvedPath(conf.PrivateKeyPath)
	key, err := sign.LoadPrivateKey(path)
	if err != nil {
		return nil, &protocol.CredentialError{Source: path, Err: err}
	}
	return key, nil
}

// LoadVerifyingKey reads the ECDSA public key conf points to.
func LoadVerifyingKey(conf *Config) (*sign.PublicKey, error) {
	path := conf.ResolvedPath(conf.PublicKeyPath)
	key, err := sign.LoadPublicKey(path)
	if err != nil {
		return nil, &protocol.CredentialError{Source: path, Err: err}
	}
	return key, nil
}

func loadSecret(env string) (sign.SecretKey, error) {
	source := "$" + env
	secret, ok := os.LookupEnv(env)
	if !ok {
		return nil, &protocol.CredentialError{Source: source, Err: ErrSecretUnset}
	}
	key, err := sign.NewSecretKey([]byte(secret))
	if err != nil {
		return nil, &protocol.CredentialError{Source: source, Err: err}
	}
	return key, nil
}
