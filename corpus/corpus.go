// Package corpus persists failing command sequences in a bbolt database so they can be listed and replayed.
package corpus

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/utils"
	"go.etcd.io/bbolt"
)

var (
	// entriesBucket maps entry IDs to encoded entries.
	entriesBucket = []byte("entries")

	// hashesBucket maps sequence hashes to entry IDs.
	hashesBucket = []byte("hashes")
)

// ErrEntryNotFound is returned when no entry has the requested ID.
var ErrEntryNotFound = errors.New("corpus entry not found")

// Corpus is a persistent set of failing sequences. Sequences are deduplicated by their hash.
type Corpus struct {
	db *bbolt.DB
}

// Open opens the corpus database at the path, creating it and its directory if needed.
func Open(path string) (*Corpus, error) {
	if err := utils.MakeDirectory(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open corpus at %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{entriesBucket, hashesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}
	return &Corpus{db: db}, nil
}

// Close closes the database.
func (c *Corpus) Close() error {
	return c.db.Close()
}

// Add stores the entry unless an entry with the same sequence exists. It returns whether the entry was added.
func (c *Corpus) Add(entry *Entry) (bool, error) {
	hash, err := entry.Hash()
	if err != nil {
		return false, err
	}
	data, err := cbor.Marshal(entry, encOptions)
	if err != nil {
		return false, errors.Wrap(err, "could not encode corpus entry")
	}

	added := false
	err = c.db.Update(func(tx *bbolt.Tx) error {
		hashes := tx.Bucket(hashesBucket)
		if hashes.Get([]byte(hash)) != nil {
			return nil
		}
		if err := tx.Bucket(entriesBucket).Put([]byte(entry.ID), data); err != nil {
			return err
		}
		added = true
		return hashes.Put([]byte(hash), []byte(entry.ID))
	})
	return added, errors.WithStack(err)
}

// Get returns the entry with the ID.
func (c *Corpus) Get(id string) (*Entry, error) {
	var entry *Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(entriesBucket).Get([]byte(id))
		if data == nil {
			return errors.Wrap(ErrEntryNotFound, id)
		}
		entry = &Entry{}
		return cbor.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all entries, oldest first.
func (c *Corpus) List() ([]*Entry, error) {
	var entries []*Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(key []byte, data []byte) error {
			entry := &Entry{}
			if err := cbor.Unmarshal(data, entry); err != nil {
				return errors.Wrapf(err, "could not decode corpus entry %s", key)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt != entries[j].CreatedAt {
			return entries[i].CreatedAt < entries[j].CreatedAt
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Count returns the number of entries.
func (c *Corpus) Count() (int, error) {
	count := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(entriesBucket).Stats().KeyN
		return nil
	})
	return count, errors.WithStack(err)
}

// Remove deletes the entry with the ID.
func (c *Corpus) Remove(id string) error {
	entry, err := c.Get(id)
	if err != nil {
		return err
	}
	hash, err := entry.Hash()
	if err != nil {
		return err
	}
	return errors.WithStack(c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(hashesBucket).Delete([]byte(hash)); err != nil {
			return err
		}
		return tx.Bucket(entriesBucket).Delete([]byte(id))
	}))
}
