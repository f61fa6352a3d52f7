// Package store is the local persistence layer: a bbolt database holding
// the auth credential slot and the TTL response cache. The database is
// opened lazily on first use; open failures are reported as
// *UnavailableError so callers can degrade to uncached, unauthenticated
// operation instead of failing the request in flight.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

// schemaVersion is bumped when the bucket layout changes. Opening a
// database written by an older schema migrates it in place.
const schemaVersion = 2

const (
	bucketMeta        = "meta"         // key: "schema_version" -> decimal string
	bucketAuth        = "auth"         // key: "current" -> Credential JSON
	bucketCache       = "cache"        // key: cache key -> Entry JSON
	bucketCacheExpiry = "cache_expiry" // key: expiry-index key -> cache key
	authKey           = "current"
	metaVersionKey    = "schema_version"
)

// bucketResponsesV1 held unversioned cached responses before the expiry
// index existed. Dropped on migration to v2.
const bucketResponsesV1 = "responses"

// Credential is the singleton auth record.
type Credential struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
}

// Entry is a cached response payload with its expiry.
type Entry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UnavailableError wraps any storage fault (missing directory, locked or
// corrupt database file). Callers treat it as a cache/auth miss.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a storage-unavailable fault.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

type Store struct {
	path string

	once sync.Once
	db   *bbolt.DB
	err  error
}

// New returns a store backed by the bbolt file at path. The database is
// not opened until the first operation.
func New(path string) *Store {
	return &Store{path: path}
}

// open performs the single lazy open. Concurrent callers share one
// attempt; the outcome (including failure) is sticky for the process.
func (s *Store) open() (*bbolt.DB, error) {
	s.once.Do(func() {
		db, err := bbolt.Open(s.path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			s.err = err
			return
		}
		if err := migrate(db); err != nil {
			_ = db.Close()
			s.err = err
			return
		}
		s.db = db
	})
	if s.err != nil {
		return nil, &UnavailableError{Err: s.err}
	}
	return s.db, nil
}

// migrate creates the current buckets and drops superseded ones. Runs on
// every open; a database already at the current version is a no-op apart
// from the version read.
func migrate(db *bbolt.DB) error {
	return db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}
		for _, name := range []string{bucketAuth, bucketCache, bucketCacheExpiry} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		stored := string(meta.Get([]byte(metaVersionKey)))
		if stored != fmt.Sprintf("%d", schemaVersion) {
			if err := tx.DeleteBucket([]byte(bucketResponsesV1)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if err := meta.Put([]byte(metaVersionKey), fmt.Appendf(nil, "%d", schemaVersion)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database if it was ever opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- auth slot ---

func (s *Store) PutAuth(cred Credential) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	data, err := json.Marshal(&cred)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketAuth)).Put([]byte(authKey), data)
	})
	if err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// GetAuth returns the stored credential, or nil when none exists.
func (s *Store) GetAuth() (*Credential, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	var cred *Credential
	err = db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketAuth)).Get([]byte(authKey))
		if raw == nil {
			return nil
		}
		cred = &Credential{}
		return json.Unmarshal(raw, cred)
	})
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	return cred, nil
}

// DeleteAuth removes the credential. Deleting an absent credential is
// not an error.
func (s *Store) DeleteAuth() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketAuth)).Delete([]byte(authKey))
	})
	if err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// --- response cache ---

// expiryIndexKey orders index rows by expiry time. The cache key suffix
// keeps rows unique when entries share a timestamp.
func expiryIndexKey(expiresAt time.Time, cacheKey string) []byte {
	k := make([]byte, 8, 8+1+len(cacheKey))
	binary.BigEndian.PutUint64(k, uint64(expiresAt.UnixNano()))
	k = append(k, 0)
	return append(k, cacheKey...)
}

func (s *Store) PutCache(e Entry) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	data, err := json.Marshal(&e)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		cache := tx.Bucket([]byte(bucketCache))
		index := tx.Bucket([]byte(bucketCacheExpiry))

		// Replacing a key must not leave its old index row behind.
		if raw := cache.Get([]byte(e.Key)); raw != nil {
			var old Entry
			if json.Unmarshal(raw, &old) == nil {
				if err := index.Delete(expiryIndexKey(old.ExpiresAt, old.Key)); err != nil {
					return err
				}
			}
		}
		if err := cache.Put([]byte(e.Key), data); err != nil {
			return err
		}
		return index.Put(expiryIndexKey(e.ExpiresAt, e.Key), []byte(e.Key))
	})
	if err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// GetCache returns the live entry for key, or nil on a miss. An expired
// entry is deleted lazily and reported as a miss.
func (s *Store) GetCache(key string) (*Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	var entry *Entry
	err = db.Update(func(tx *bbolt.Tx) error {
		cache := tx.Bucket([]byte(bucketCache))
		raw := cache.Get([]byte(key))
		if raw == nil {
			return nil
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			// Unreadable entry: drop it and treat as a miss.
			return cache.Delete([]byte(key))
		}
		if !e.ExpiresAt.After(time.Now()) {
			if err := cache.Delete([]byte(key)); err != nil {
				return err
			}
			return tx.Bucket([]byte(bucketCacheExpiry)).Delete(expiryIndexKey(e.ExpiresAt, e.Key))
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	return entry, nil
}

func (s *Store) DeleteCache(key string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		cache := tx.Bucket([]byte(bucketCache))
		raw := cache.Get([]byte(key))
		if raw == nil {
			return nil
		}
		var e Entry
		if json.Unmarshal(raw, &e) == nil {
			if err := tx.Bucket([]byte(bucketCacheExpiry)).Delete(expiryIndexKey(e.ExpiresAt, e.Key)); err != nil {
				return err
			}
		}
		return cache.Delete([]byte(key))
	})
	if err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// ClearCache removes every cached response.
func (s *Store) ClearCache() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketCache, bucketCacheExpiry} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// SweepExpired deletes every entry whose expiry is at or before now,
// walking the expiry index in order and stopping at the first live row.
func (s *Store) SweepExpired(now time.Time) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	deleted := 0
	err = db.Update(func(tx *bbolt.Tx) error {
		cache := tx.Bucket([]byte(bucketCache))
		index := tx.Bucket([]byte(bucketCacheExpiry))
		cutoff := uint64(now.UnixNano())

		c := index.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if binary.BigEndian.Uint64(k[:8]) > cutoff {
				break
			}
			if err := cache.Delete(v); err != nil {
				return err
			}
			if err := c.Delete(); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, &UnavailableError{Err: err}
	}
	return deleted, nil
}
