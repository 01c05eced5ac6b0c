package authstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bucket names in the bolt database
const (
	sessionBucket = "session"
	metaBucket    = "meta"
)

// boltWaitTime is how long to wait for another process to release
// the database
var boltWaitTime = 5 * time.Second

// BoltStore keeps the credentials in a bolt database file.
//
// The database is only held open for the duration of each call so
// several processes can share it.
type BoltStore struct {
	path string
}

// NewBoltStore makes a BoltStore for the database at path
func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

// String returns the path of the database
func (b *BoltStore) String() string {
	return "<Auth DB> " + b.path
}

// open the database, creating it if necessary
func (b *BoltStore) open(readOnly bool) (*bolt.DB, error) {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %q", b.path)
		}
	}
	db, err := bolt.Open(b.path, 0600, &bolt.Options{Timeout: boltWaitTime, ReadOnly: readOnly})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open auth database %q", b.path)
	}
	return db, nil
}

// Load reads the credentials
func (b *BoltStore) Load(ctx context.Context) (t credential.Triple, err error) {
	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		return t, ErrNotFound
	}
	db, err := b.open(true)
	if err != nil {
		return t, err
	}
	defer fs.CheckClose(db, &err)
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return ErrNotFound
		}
		for _, name := range credential.CookieNames {
			if val := bucket.Get([]byte(name)); val != nil {
				t.Set(name, string(val))
			}
		}
		if meta := tx.Bucket([]byte(metaBucket)); meta != nil {
			if saved, parseErr := time.Parse(time.RFC3339, string(meta.Get([]byte("saved")))); parseErr == nil {
				fs.Debugf(b, "Loaded credentials saved %v ago", time.Since(saved).Truncate(time.Second))
			}
		}
		return nil
	})
	if err == nil && t.IsEmpty() {
		err = ErrNotFound
	}
	return t, err
}

// Save writes the credentials, replacing all three together
func (b *BoltStore) Save(ctx context.Context, t credential.Triple) (err error) {
	db, err := b.open(false)
	if err != nil {
		return err
	}
	defer fs.CheckClose(db, &err)
	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		if err != nil {
			return err
		}
		for _, name := range credential.CookieNames {
			if err := bucket.Put([]byte(name), []byte(t.Get(name))); err != nil {
				return errors.Wrapf(err, "couldn't store %s", name)
			}
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		return meta.Put([]byte("saved"), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save credentials to %q", b.path)
	}
	fs.Debugf(b, "Saved credentials")
	return nil
}
