package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes
const (
	prefixHistory = "gen/"
	prefixLatest  = "arch/"
	keySequence   = "seq/history"
)

// Record describes one generated header.
type Record struct {
	Arch        string    `json:"arch"`
	Path        string    `json:"path"`
	Guard       string    `json:"guard"`
	NetworkHash uint32    `json:"network_hash,omitempty"`
	HasHash     bool      `json:"has_hash"`
	Digest      uint64    `json:"digest"`
	Size        int       `json:"size"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewRecord builds a record for header content written to path.
func NewRecord(arch, path, guard, content string) *Record {
	return &Record{
		Arch:        arch,
		Path:        path,
		Guard:       guard,
		Digest:      Digest(content),
		Size:        len(content),
		GeneratedAt: time.Now(),
	}
}

// SetNetworkHash attaches the layer-chain hash.
func (r *Record) SetNetworkHash(h uint32) {
	r.NetworkHash = h
	r.HasHash = true
}

// Digest returns the content digest stored with each record.
func Digest(content string) uint64 {
	return xxhash.Sum64String(content)
}

// Storage wraps BadgerDB for the generation history.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the history database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the history database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a history database that is discarded on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	seq, err := db.GetSequence([]byte(keySequence), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open history sequence: %w", err)
	}
	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		s.seq.Release()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// historyKey orders records by time, then by insertion for equal times.
// Zero-padded so keys sort lexically.
func historyKey(t time.Time, n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d/%020d", prefixHistory, t.UnixNano(), n))
}

// Record appends rec to the history and marks it as the latest for its arch.
func (s *Storage) Record(rec *Record) error {
	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	n, err := s.seq.Next()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(historyKey(rec.GeneratedAt, n), data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixLatest+rec.Arch), data)
	})
}

// History returns all records, oldest first.
func (s *Storage) History() ([]Record, error) {
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixHistory)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// Latest returns the most recent record for arch. ok is false if arch was
// never recorded.
func (s *Storage) Latest(arch string) (rec *Record, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixLatest + arch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		rec = &Record{}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})

	return rec, ok, err
}
