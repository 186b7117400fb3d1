// Package storage keeps the history of resolved target descriptors so the orchestrator can tell
// when a target's build conventions changed between two invocations.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	bolt "go.etcd.io/bbolt"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

var descriptorBucket = []byte("descriptors")

// Entry is a manifest as it was recorded by Save
type Entry struct {
	RunID    string               `json:"runId"`
	Recorded time.Time            `json:"recorded"`
	Manifest targetrules.Manifest `json:"manifest"`
}

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(descriptorBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to initialise buckets")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records the manifest under its key and reports whether its descriptor differs from the
// previously recorded one. The first manifest for a key always counts as changed.
func (s *Store) Save(ctx context.Context, manifest targetrules.Manifest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	entry := Entry{
		RunID:    nanoid.New(),
		Recorded: time.Now().UTC(),
		Manifest: manifest,
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return false, eris.Wrap(err, "failed to encode entry")
	}

	changed := true
	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(descriptorBucket)
		key := []byte(manifest.Key())

		previous := bucket.Get(key)
		if previous != nil {
			var old Entry
			if err := json.Unmarshal(previous, &old); err != nil {
				return eris.Wrapf(err, "failed to decode previous entry for %s", manifest.Key())
			}
			changed = !sameDescriptor(old.Manifest.Descriptor, manifest.Descriptor)
		}

		return bucket.Put(key, encoded)
	})
	if err != nil {
		return false, eris.Wrapf(err, "failed to save %s", manifest.Key())
	}

	return changed, nil
}

// Get returns the last entry saved for key (target/platform/configuration) or nil.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		item := tx.Bucket(descriptorBucket).Get([]byte(key))
		if item == nil {
			return nil
		}

		entry = new(Entry)
		return json.Unmarshal(item, entry)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", key)
	}
	return entry, nil
}

// List returns all entries ordered by key
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	result := make([]Entry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(descriptorBucket).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return eris.Wrapf(err, "failed to decode entry %s", k)
			}

			result = append(result, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Changed compares the manifest with the recorded one without saving it.
func (s *Store) Changed(ctx context.Context, manifest targetrules.Manifest) (bool, error) {
	entry, err := s.Get(ctx, manifest.Key())
	if err != nil {
		return false, err
	}

	if entry == nil {
		return true, nil
	}
	return !sameDescriptor(entry.Manifest.Descriptor, manifest.Descriptor), nil
}

func sameDescriptor(a, b targetrules.DescriptorRecord) bool {
	left, err := a.Descriptor()
	if err != nil {
		return false
	}

	right, err := b.Descriptor()
	if err != nil {
		return false
	}

	return left.Equal(right)
}
