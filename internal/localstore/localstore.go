// Package localstore хранит строковые ключи в одном JSON-файле на диске.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	StateKey         = "goalPathState"
	LastQuoteDateKey = "lastQuoteDate"
)

// ReflectionKey маркер выполненной рефлексии за день
func ReflectionKey(date string) string {
	return "reflection_" + date
}

type Store struct {
	Path string

	mu     sync.RWMutex
	values map[string]string
}

func Open(path string) (*Store, error) {
	s := &Store{
		Path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("повреждённое локальное хранилище %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set записывает значение и сразу сбрасывает файл на диск.
// При ошибке записи значение в памяти не меняется.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("ошибка создания каталога хранилища: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("ошибка записи хранилища: %w", err)
	}
	return os.Rename(tmp, s.Path)
}
