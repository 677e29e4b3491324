package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bodyBucket       = "bodies"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("body bucket missing")

// boltStore keeps bodies in BoltDB. Each value is an 8-byte big-endian expiry followed by the body.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	bodyTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bodyBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		bodyTTL:         opts.BodyTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// GetBody returns the cached body for id. Expired entries are deleted and reported as missing.
func (b *boltStore) GetBody(id string) (string, bool, error) {
	if b == nil || b.db == nil {
		return "", false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return "", false, err
	}

	var (
		body  string
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bodyBucket))
		if bucket == nil {
			return errBucketMissing
		}

		key := []byte(id)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, payload, ok := decodeValue(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}

		body, found = string(payload), true
		return nil
	})
	return body, found, err
}

// PutBody stores body for id with a fresh expiry.
func (b *boltStore) PutBody(id, body string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bodyBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(id), encodeValue(now.Add(b.bodyTTL), body))
	})
}

// maybeCleanupExpired removes expired bodies on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bodyBucket))
		if bucket == nil {
			return errBucketMissing
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeValue(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeValue(expiry time.Time, body string) []byte {
	buf := make([]byte, expiryValueBytes+len(body))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], body)
	return buf
}

// decodeValue splits a stored value into its expiry and body.
func decodeValue(value []byte) (time.Time, []byte, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(unix, 0), value[expiryValueBytes:], true
}
