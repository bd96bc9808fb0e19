package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds the current snapshot and notifies observers on change.
// Persistence is an observer, not interleaved logic.
type Store struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex
	snap      Snapshot
	observers []func(Snapshot)
}

func NewStore(initial Snapshot) *Store {
	return &Store{snap: initial}
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Update applies a pure transformation and notifies observers with the
// resulting snapshot. Notifications are serialized in commit order, so an
// observer mirroring snapshots to storage always sees the newest one last.
func (s *Store) Update(transform func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	s.snap = transform(s.snap)
	snap := s.snap
	observers := s.observers
	// Take the notify lock before releasing the state lock: a later commit
	// cannot overtake this one's notifications.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, observe := range observers {
		observe(snap)
	}
	return snap
}

// Subscribe registers an observer called after every update.
func (s *Store) Subscribe(observe func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observe)
}

// Storage keys mirrored to the durable cache.
const (
	KeyExpenses        = "expenses"
	KeyIncomes         = "incomes"
	KeyToken           = "token"
	KeyMonthlyBudget   = "monthlyBudget"
	KeyCategoryBudgets = "categoryBudgets"
)

// FileStorage is a keyed JSON store on disk, one file per key.
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) path(key string) string {
	// Budget categories like "Rent/Housing" never reach keys, but keep
	// separators out of filenames anyway.
	return filepath.Join(f.dir, strings.ReplaceAll(key, string(os.PathSeparator), "_")+".json")
}

// Set serializes value under key.
func (f *FileStorage) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path(key), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Get deserializes the value under key into out. A missing key leaves out
// untouched and reports false.
func (f *FileStorage) Get(key string, out interface{}) (bool, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path(key))
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Remove deletes the value under key.
func (f *FileStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Persist mirrors every snapshot change to durable storage. Write failures
// are returned by Flush on demand; the observer itself is best effort.
func Persist(store *Store, storage *FileStorage, onError func(error)) {
	store.Subscribe(func(snap Snapshot) {
		if err := flushSnapshot(storage, snap); err != nil && onError != nil {
			onError(err)
		}
	})
}

func flushSnapshot(storage *FileStorage, snap Snapshot) error {
	steps := []struct {
		key   string
		value interface{}
	}{
		{KeyExpenses, snap.Expenses},
		{KeyIncomes, snap.Incomes},
		{KeyToken, snap.Token},
		{KeyMonthlyBudget, snap.MonthlyBudget},
		{KeyCategoryBudgets, snap.CategoryBudgets},
	}
	for _, step := range steps {
		if err := storage.Set(step.key, step.value); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot rebuilds a snapshot from durable storage, for starting
// offline or resuming a session.
func LoadSnapshot(storage *FileStorage) (Snapshot, error) {
	var snap Snapshot
	if _, err := storage.Get(KeyExpenses, &snap.Expenses); err != nil {
		return Snapshot{}, err
	}
	if _, err := storage.Get(KeyIncomes, &snap.Incomes); err != nil {
		return Snapshot{}, err
	}
	if _, err := storage.Get(KeyToken, &snap.Token); err != nil {
		return Snapshot{}, err
	}
	if _, err := storage.Get(KeyMonthlyBudget, &snap.MonthlyBudget); err != nil {
		return Snapshot{}, err
	}
	if _, err := storage.Get(KeyCategoryBudgets, &snap.CategoryBudgets); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
