// Package testutil provides helpers for tests that need key files or
// a stand-in registry.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/asokol123/yggdrasil-dns/application"
	"github.com/asokol123/yggdrasil-dns/crypto/sign"
	"github.com/asokol123/yggdrasil-dns/protocol"
)

// Key file names written by CreateKeyFiles.
const (
	PrivateKeyFile = "private.pem"
	PublicKeyFile  = "public.pem"
)

// CreateKeyFiles generates a P-256 key pair and writes it PEM-encoded
// to private.pem and public.pem in dir.
func CreateKeyFiles(dir string) (*sign.PrivateKey, error) {
	key, err := sign.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	priv, err := key.MarshalPEM()
	if err != nil {
		return nil, err
	}
	pub, err := key.Public().MarshalPEM()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, PrivateKeyFile), priv, 0600); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, PublicKeyFile), pub, 0644); err != nil {
		return nil, err
	}
	return key, nil
}

// CreateKeyFilesForTest writes a fresh key pair into a new temporary
// directory and returns the key, the directory and a teardown func.
func CreateKeyFilesForTest(t *testing.T) (*sign.PrivateKey, string, func()) {
	dir, err := os.MkdirTemp("", "dnsclientTest")
	if err != nil {
		t.Fatal(err)
	}
	key, err := CreateKeyFiles(dir)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return key, dir, func() {
		os.RemoveAll(dir)
	}
}

// A Request is what a registry stand-in received.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
	Header http.Header
}

// NewRegistry starts an httptest server that records each request and
// answers with status and body. The returned channel receives one
// Request per call and must be drained by the test.
func NewRegistry(t *testing.T, status int, body string) (*httptest.Server, <-chan *Request) {
	requests := make(chan *Request, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		query := make(map[string]string)
		for k, v := range r.URL.Query() {
			query[k] = v[0]
		}
		requests <- &Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Body:   buf,
			Header: r.Header.Clone(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, requests
}

// NewSiteRegistry is like NewRegistry but answers every request with
// 200 and site, encoded the way the registry answers a get_site.
func NewSiteRegistry(t *testing.T, site *protocol.SiteRecord) (*httptest.Server, <-chan *Request) {
	body, err := application.MarshalSiteRecord(site)
	if err != nil {
		t.Fatal(err)
	}
	return NewRegistry(t, http.StatusOK, string(body))
}
