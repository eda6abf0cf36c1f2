package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "ett-connector/internal/common"
	. "ett-connector/internal/interfaces"

	bolt "go.etcd.io/bbolt"
)

const stateBucket = "state"

type boltStore struct {
	db *bolt.DB
}

// NewBoltStore opens the local key-value store used for the session record
func NewBoltStore(config *StorageConfig) (KeyValueStore, error) {
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(config.DatabasePath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

func (s *boltStore) Get(key string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(stateBucket)).Get([]byte(key))
		if data != nil {
			value = make([]byte, len(data))
			copy(value, data)
		}
		return nil
	})
	if err != nil {
		return nil, NewStorageError("read_failed", "failed to read key "+key).WithCause(err)
	}

	return value, nil
}

func (s *boltStore) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return NewStorageError("write_failed", "failed to write key "+key).WithCause(err)
	}
	return nil
}

func (s *boltStore) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Delete([]byte(key))
	})
	if err != nil {
		return NewStorageError("delete_failed", "failed to delete key "+key).WithCause(err)
	}
	return nil
}

func (s *boltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns a volatile key-value store. It stands in for the
// durable store in headless contexts where nothing should be persisted.
func NewMemoryStore() KeyValueStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	value := make([]byte, len(data))
	copy(value, data)
	return value, nil
}

func (s *memoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	s.values[key] = data
	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
