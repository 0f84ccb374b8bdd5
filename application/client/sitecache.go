package client

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/asokol123/yggdrasil-dns/storage/kv"
	"github.com/asokol123/yggdrasil-dns/storage/kv/leveldbkv"
)

const siteKeyPrefix = "site/"

// ErrNotCached indicates a site that has no cached lookup.
var ErrNotCached = errors.New("[dns] Site is not in the lookup cache")

// A CachedSite is a successful get_site answer and when it was received.
type CachedSite struct {
	Site      string    `json:"-"`
	Address   string    `json:"address"`
	FetchedAt time.Time `json:"fetched_at"`
}

// A SiteCache persists successful lookups so they can be read back
// without mining or network access. Entries are never expired: the
// registry's own expiry is not part of a get_site answer.
type SiteCache struct {
	db  kv.DB
	now func() time.Time
}

// OpenSiteCache opens the leveldb cache database at path.
func OpenSiteCache(path string) (*SiteCache, error) {
	db, err := leveldbkv.OpenDB(path)
	if err != nil {
		return nil, err
	}
	return NewSiteCache(db), nil
}

// NewSiteCache returns a SiteCache stored in db.
func NewSiteCache(db kv.DB) *SiteCache {
	return &SiteCache{db: db, now: time.Now}
}

func siteKey(site string) []byte {
	return []byte(siteKeyPrefix + site)
}

// Put records rec as the current answer for site.
func (c *SiteCache) Put(site string, rec *protocol.SiteRecord) error {
	value, err := json.Marshal(&CachedSite{
		Address:   rec.Address,
		FetchedAt: c.now().UTC(),
	})
	if err != nil {
		return err
	}
	return c.db.Put(siteKey(site), value)
}

// Get returns the cached answer for site, or ErrNotCached.
func (c *SiteCache) Get(site string) (*CachedSite, error) {
	value, err := c.db.Get(siteKey(site))
	if err == c.db.ErrNotFound() {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	return decodeCachedSite(site, value)
}

// List returns every cached answer ordered by site name.
func (c *SiteCache) List() ([]*CachedSite, error) {
	it := c.db.NewIterator(kv.BytesPrefix([]byte(siteKeyPrefix)))
	defer it.Release()
	var sites []*CachedSite
	for ok := it.First(); ok; ok = it.Next() {
		site := string(it.Key()[len(siteKeyPrefix):])
		cs, err := decodeCachedSite(site, it.Value())
		if err != nil {
			return nil, err
		}
		sites = append(sites, cs)
	}
	return sites, it.Error()
}

// Forget drops site from the cache. Forgetting an uncached site is not
// an error.
func (c *SiteCache) Forget(site string) error {
	return c.db.Delete(siteKey(site))
}

// Purge drops every cached answer in one atomic write and returns how
// many there were.
func (c *SiteCache) Purge() (int, error) {
	it := c.db.NewIterator(kv.BytesPrefix([]byte(siteKeyPrefix)))
	b := c.db.NewBatch()
	for ok := it.First(); ok; ok = it.Next() {
		b.Delete(append([]byte(nil), it.Key()...))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return 0, err
	}
	if b.Len() == 0 {
		return 0, nil
	}
	return b.Len(), c.db.Write(b)
}

// Close closes the underlying database.
func (c *SiteCache) Close() error {
	return c.db.Close()
}

func decodeCachedSite(site string, value []byte) (*CachedSite, error) {
	cs := new(CachedSite)
	if err := json.Unmarshal(value, cs); err != nil {
		return nil, err
	}
	cs.Site = site
	return cs, nil
}
