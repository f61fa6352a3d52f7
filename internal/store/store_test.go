package store

import (
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "gh-browse.db"))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAuthRoundTrip(t *testing.T) {
	s := newTestStore(t)

	cred, err := s.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error: %v", err)
	}
	if cred != nil {
		t.Fatalf("GetAuth() on empty store = %+v, want nil", cred)
	}

	want := Credential{AccessToken: "ghp_abc123", TokenType: "bearer", CreatedAt: time.Now().UTC()}
	if err := s.PutAuth(want); err != nil {
		t.Fatalf("PutAuth() error: %v", err)
	}

	cred, err = s.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error: %v", err)
	}
	if cred == nil {
		t.Fatal("GetAuth() = nil after PutAuth")
	}
	if cred.AccessToken != want.AccessToken || cred.TokenType != want.TokenType {
		t.Errorf("GetAuth() = %+v, want %+v", cred, want)
	}

	if err := s.DeleteAuth(); err != nil {
		t.Fatalf("DeleteAuth() error: %v", err)
	}
	// Deleting again must be idempotent.
	if err := s.DeleteAuth(); err != nil {
		t.Fatalf("second DeleteAuth() error: %v", err)
	}
	cred, _ = s.GetAuth()
	if cred != nil {
		t.Errorf("GetAuth() after delete = %+v, want nil", cred)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	e := Entry{Key: "api:GET /repos/octocat/hello", Data: []byte(`{"id":1}`), ExpiresAt: time.Now().Add(time.Minute)}
	if err := s.PutCache(e); err != nil {
		t.Fatalf("PutCache() error: %v", err)
	}

	got, err := s.GetCache(e.Key)
	if err != nil {
		t.Fatalf("GetCache() error: %v", err)
	}
	if got == nil {
		t.Fatal("GetCache() = nil, want entry")
	}
	if string(got.Data) != string(e.Data) {
		t.Errorf("GetCache().Data = %s, want %s", got.Data, e.Data)
	}
}

func TestCacheExpiredEntryIsMiss(t *testing.T) {
	s := newTestStore(t)

	e := Entry{Key: "api:GET /user", Data: []byte(`{}`), ExpiresAt: time.Now().Add(-time.Second)}
	if err := s.PutCache(e); err != nil {
		t.Fatalf("PutCache() error: %v", err)
	}

	got, err := s.GetCache(e.Key)
	if err != nil {
		t.Fatalf("GetCache() error: %v", err)
	}
	if got != nil {
		t.Errorf("GetCache() on expired entry = %+v, want nil", got)
	}
}

func TestSweepExpired(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	entries := []Entry{
		{Key: "old", Data: []byte("a"), ExpiresAt: now.Add(-10 * time.Second)},
		{Key: "fresh", Data: []byte("b"), ExpiresAt: now.Add(10 * time.Second)},
	}
	for _, e := range entries {
		if err := s.PutCache(e); err != nil {
			t.Fatalf("PutCache(%q) error: %v", e.Key, err)
		}
	}

	deleted, err := s.SweepExpired(now)
	if err != nil {
		t.Fatalf("SweepExpired() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("SweepExpired() deleted %d, want 1", deleted)
	}

	if got, _ := s.GetCache("fresh"); got == nil {
		t.Error("fresh entry was swept")
	}
	// Check the raw bucket, not GetCache, so lazy expiry can't mask a
	// sweep that failed to delete.
	s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucketCache)).Get([]byte("old")) != nil {
			t.Error("expired entry still present after sweep")
		}
		return nil
	})
}

func TestPutCacheReplacesExpiryIndexRow(t *testing.T) {
	s := newTestStore(t)

	key := "api:GET /repos/o/r/issues?page=1"
	first := time.Now().Add(time.Minute)
	if err := s.PutCache(Entry{Key: key, Data: []byte("v1"), ExpiresAt: first}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutCache(Entry{Key: key, Data: []byte("v2"), ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	// Sweeping past the first expiry must not delete the replaced entry.
	if _, err := s.SweepExpired(first.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetCache(key)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("replaced entry deleted via stale index row")
	}
	if string(got.Data) != "v2" {
		t.Errorf("Data = %s, want v2", got.Data)
	}
}

func TestClearCache(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := s.PutCache(Entry{Key: key, Data: []byte(key), ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if got, _ := s.GetCache(key); got != nil {
			t.Errorf("GetCache(%q) = %+v after clear, want nil", key, got)
		}
	}
}

func TestMigrationDropsLegacyBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gh-browse.db")

	// Fabricate a v1 database with the old responses bucket.
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(bucketResponsesV1))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	s := New(path)
	defer s.Close()
	if err := s.PutCache(Entry{Key: "k", Data: []byte("v"), ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("PutCache() after migration error: %v", err)
	}

	s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucketResponsesV1)) != nil {
			t.Error("legacy responses bucket survived migration")
		}
		if tx.Bucket([]byte(bucketCache)) == nil || tx.Bucket([]byte(bucketCacheExpiry)) == nil {
			t.Error("current buckets missing after migration")
		}
		return nil
	})
}

func TestStorageUnavailable(t *testing.T) {
	// A path whose parent directory does not exist cannot be opened.
	s := New(filepath.Join(t.TempDir(), "no", "such", "dir", "db"))
	defer s.Close()

	_, err := s.GetAuth()
	if err == nil {
		t.Fatal("GetAuth() on unopenable store: want error")
	}
	if !IsUnavailable(err) {
		t.Errorf("error %v is not an UnavailableError", err)
	}
	// The failed open is sticky; later calls fail the same way without
	// a new open attempt.
	if _, err := s.GetCache("k"); !IsUnavailable(err) {
		t.Errorf("GetCache() error = %v, want UnavailableError", err)
	}
}
