package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one entry of a collection as stored in the JSON document.
type Record = map[string]any

var (
	ErrNotFound       = errors.New("record not found")
	ErrBackupNotFound = errors.New("backup not found")
)

// Store keeps the whole JSON document in memory and flushes it back to disk
// after every mutation, before the caller answers the request. Collections
// are top-level arrays keyed by resource name; settings is a singleton
// object under the "settings" key.
type Store struct {
	mu        sync.RWMutex
	path      string
	backupDir string
	doc       map[string]any
	counters  map[string]int64
}

// Open loads the document at path, seeding a fresh one when the file does
// not exist yet.
func Open(path, backupDir string) (*Store, error) {
	s := &Store{
		path:      path,
		backupDir: backupDir,
		doc:       map[string]any{},
		counters:  map[string]int64{},
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		s.doc = SeedDocument()
		if err := s.persist(); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	s.seedCounters()
	return s, nil
}

func (s *Store) seedCounters() {
	s.counters = map[string]int64{}
	for name, value := range s.doc {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		var max int64
		for _, item := range items {
			rec, ok := item.(Record)
			if !ok {
				continue
			}
			if id, err := strconv.ParseInt(idKey(rec["id"]), 10, 64); err == nil && id > max {
				max = id
			}
		}
		s.counters[name] = max
	}
}

// idKey normalizes an id value to its canonical string form so that a path
// parameter matches both numeric and string ids in the document.
func idKey(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func (s *Store) collection(resource string) []any {
	items, _ := s.doc[resource].([]any)
	return items
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// List returns the records of a collection, optionally filtered by
// top-level field equality (linear scan, string-normalized comparison).
// Unknown collections yield an empty list.
func (s *Store) List(resource string, filters map[string]string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.collection(resource)
	out := make([]Record, 0, len(items))
	for _, item := range items {
		rec, ok := item.(Record)
		if !ok {
			continue
		}
		if !matches(rec, filters) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out
}

func matches(rec Record, filters map[string]string) bool {
	for field, want := range filters {
		if idKey(rec[field]) != want {
			return false
		}
	}
	return true
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(resource, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.collection(resource) {
		rec, ok := item.(Record)
		if !ok {
			continue
		}
		if idKey(rec["id"]) == id {
			return cloneRecord(rec), nil
		}
	}
	return nil, ErrNotFound
}

// Insert appends a record with a freshly assigned id. Ids come from a
// per-collection monotonic counter and are never reused after deletions.
func (s *Store) Insert(resource string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneRecord(rec)
	prev := s.collection(resource)
	s.counters[resource]++
	stored["id"] = s.counters[resource]
	s.doc[resource] = append(prev, stored)
	if err := s.persist(); err != nil {
		s.doc[resource] = prev
		s.counters[resource]--
		return nil, err
	}
	return cloneRecord(stored), nil
}

// Update merges partial over the stored record one level deep; nested
// objects are replaced wholesale. The stored id is not overwritable.
func (s *Store) Update(resource, id string, partial Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collection(resource)
	for i, item := range items {
		rec, ok := item.(Record)
		if !ok || idKey(rec["id"]) != id {
			continue
		}
		merged := cloneRecord(rec)
		for k, v := range partial {
			if k == "id" {
				continue
			}
			merged[k] = v
		}
		items[i] = merged
		s.doc[resource] = items
		if err := s.persist(); err != nil {
			items[i] = rec
			return nil, err
		}
		return cloneRecord(merged), nil
	}
	return nil, ErrNotFound
}

// Delete filters the record out of its collection; ErrNotFound when nothing
// changed.
func (s *Store) Delete(resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collection(resource)
	kept := make([]any, 0, len(items))
	for _, item := range items {
		rec, ok := item.(Record)
		if ok && idKey(rec["id"]) == id {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}
	s.doc[resource] = kept
	if err := s.persist(); err != nil {
		s.doc[resource] = items
		return err
	}
	return nil
}

// Settings returns the singleton settings object (empty when absent).
func (s *Store) Settings() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if settings, ok := s.doc["settings"].(Record); ok {
		return cloneRecord(settings)
	}
	return Record{}
}

// MergeSettings overwrites top-level settings keys with the given partial
// document and persists; keys not present in partial survive.
func (s *Store) MergeSettings(partial Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.doc["settings"].(Record)
	if !ok {
		settings = Record{}
	}
	merged := cloneRecord(settings)
	for k, v := range partial {
		merged[k] = v
	}
	s.doc["settings"] = merged
	if err := s.persist(); err != nil {
		s.doc["settings"] = settings
		return nil, err
	}
	return cloneRecord(merged), nil
}

// Snapshot serializes the current document.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.doc, "", "  ")
}

// persist writes the document to disk through a temp file rename so a crash
// mid-write never leaves a truncated database behind. Caller holds the lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// BackupInfo describes one on-disk snapshot of the document.
type BackupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
}

func (s *Store) backupPath(id string) string {
	return filepath.Join(s.backupDir, "backup-"+id+".json")
}

// CreateBackup snapshots the document into the backup directory.
func (s *Store) CreateBackup() (BackupInfo, error) {
	raw, err := s.Snapshot()
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return BackupInfo{}, err
	}
	id := uuid.NewString()
	if err := os.WriteFile(s.backupPath(id), raw, 0o644); err != nil {
		return BackupInfo{}, err
	}
	return BackupInfo{ID: id, CreatedAt: time.Now().UTC(), SizeBytes: int64(len(raw))}, nil
}

// ListBackups enumerates snapshots, newest first.
func (s *Store) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, err
	}
	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "backup-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			ID:        strings.TrimSuffix(strings.TrimPrefix(name, "backup-"), ".json"),
			CreatedAt: info.ModTime().UTC(),
			SizeBytes: info.Size(),
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].CreatedAt.After(backups[j].CreatedAt) })
	return backups, nil
}

// RestoreBackup replaces the live document with the snapshot and persists.
func (s *Store) RestoreBackup(id string) error {
	raw, err := os.ReadFile(s.backupPath(id))
	if os.IsNotExist(err) {
		return ErrBackupNotFound
	}
	if err != nil {
		return err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse backup %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.seedCounters()
	return s.persist()
}

// DeleteBackup removes a snapshot file.
func (s *Store) DeleteBackup(id string) error {
	err := os.Remove(s.backupPath(id))
	if os.IsNotExist(err) {
		return ErrBackupNotFound
	}
	return err
}
