package store

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"jobtracker-engine/internal/domain"
)

// Keys mirror the layout the browser build used in local storage, so an
// export from it can be dropped into a file backend as-is.
const (
	keyPreferences  = "jobTrackerPreferences"
	keyStatus       = "jobTrackerStatus"
	keyStatusLog    = "jobTrackerStatusLog"
	keySaved        = "jobTrackerSaved"
	keyDigestPrefix = "jobTrackerDigest_"
)

// kvBackend is a flat key/value space. Update must run fn and write its
// result as one unit with respect to other Updates on the same key.
type kvBackend interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil when missing
	Update(ctx context.Context, key string, fn func(cur []byte) ([]byte, error)) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func newKVSet(backend string, b kvBackend) *Set {
	return &Set{
		Preferences: kvPreferences{b},
		Statuses:    kvStatuses{b},
		Saved:       kvSaved{b},
		Digests:     kvDigests{b},
		Backend:     backend,
		closer:      b.Close,
	}
}

// decode fails soft: a corrupt value reads as missing.
func decode(key string, raw []byte, v any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("[store] ignoring corrupt value key=%s err=%v", key, err)
		return false
	}
	return true
}

type kvPreferences struct{ b kvBackend }

func (s kvPreferences) Load(ctx context.Context) (*domain.Preferences, error) {
	raw, err := s.b.Get(ctx, keyPreferences)
	if err != nil {
		return nil, err
	}
	var p domain.Preferences
	if !decode(keyPreferences, raw, &p) {
		return nil, nil
	}
	return &p, nil
}

func (s kvPreferences) Save(ctx context.Context, p domain.Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.b.Update(ctx, keyPreferences, func([]byte) ([]byte, error) { return b, nil })
}

type kvStatuses struct{ b kvBackend }

func (s kvStatuses) All(ctx context.Context) (map[string]domain.JobStatus, error) {
	raw, err := s.b.Get(ctx, keyStatus)
	if err != nil {
		return nil, err
	}
	m := map[string]domain.JobStatus{}
	if !decode(keyStatus, raw, &m) {
		return map[string]domain.JobStatus{}, nil
	}
	for id, st := range m {
		parsed, err := domain.ParseStatus(string(st))
		if err != nil {
			log.Printf("[store] ignoring bad status job_id=%s err=%v", id, err)
			delete(m, id)
			continue
		}
		m[id] = parsed
	}
	return m, nil
}

func (s kvStatuses) Get(ctx context.Context, jobID string) (domain.JobStatus, error) {
	m, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	return domain.StatusOrDefault(m[jobID]), nil
}

func (s kvStatuses) Set(ctx context.Context, e domain.StatusLogEntry) error {
	if e.JobID == "" {
		return ErrEmptyJobID
	}
	err := s.b.Update(ctx, keyStatus, func(cur []byte) ([]byte, error) {
		m := map[string]domain.JobStatus{}
		if !decode(keyStatus, cur, &m) {
			m = map[string]domain.JobStatus{}
		}
		m[e.JobID] = e.Status
		return json.Marshal(m)
	})
	if err != nil {
		return err
	}
	if e.Status == domain.DefaultStatus {
		return nil
	}
	return s.b.Update(ctx, keyStatusLog, func(cur []byte) ([]byte, error) {
		var entries []domain.StatusLogEntry
		decode(keyStatusLog, cur, &entries)
		return json.Marshal(prependLog(entries, e))
	})
}

func (s kvStatuses) Log(ctx context.Context) ([]domain.StatusLogEntry, error) {
	raw, err := s.b.Get(ctx, keyStatusLog)
	if err != nil {
		return nil, err
	}
	entries := []domain.StatusLogEntry{}
	if !decode(keyStatusLog, raw, &entries) {
		return []domain.StatusLogEntry{}, nil
	}
	return entries, nil
}

type kvSaved struct{ b kvBackend }

func (s kvSaved) IDs(ctx context.Context) ([]string, error) {
	raw, err := s.b.Get(ctx, keySaved)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if !decode(keySaved, raw, &ids) {
		return []string{}, nil
	}
	return ids, nil
}

func (s kvSaved) IsSaved(ctx context.Context, jobID string) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (s kvSaved) Toggle(ctx context.Context, jobID string) (bool, error) {
	if jobID == "" {
		return false, ErrEmptyJobID
	}
	var saved bool
	err := s.b.Update(ctx, keySaved, func(cur []byte) ([]byte, error) {
		var ids []string
		decode(keySaved, cur, &ids)

		out := make([]string, 0, len(ids)+1)
		for _, id := range ids {
			if id != jobID {
				out = append(out, id)
			}
		}
		saved = len(out) == len(ids)
		if saved {
			out = append(out, jobID)
		}
		return json.Marshal(out)
	})
	return saved, err
}

type kvDigests struct{ b kvBackend }

func (s kvDigests) Load(ctx context.Context, date string) (*domain.Digest, error) {
	key := keyDigestPrefix + date
	raw, err := s.b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var d domain.Digest
	if !decode(key, raw, &d) {
		return nil, nil
	}
	if d.Entries == nil {
		d.Entries = []domain.DigestEntry{}
	}
	return &d, nil
}

func (s kvDigests) Save(ctx context.Context, d domain.Digest) error {
	if d.Entries == nil {
		d.Entries = []domain.DigestEntry{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.b.Update(ctx, keyDigestPrefix+d.Date, func([]byte) ([]byte, error) { return b, nil })
}

func (s kvDigests) DeleteBefore(ctx context.Context, date string) (int, error) {
	keys, err := s.b.Keys(ctx, keyDigestPrefix)
	if err != nil {
		return 0, err
	}
	sort.Strings(keys)
	n := 0
	for _, k := range keys {
		if strings.TrimPrefix(k, keyDigestPrefix) >= date {
			continue
		}
		if err := s.b.Delete(ctx, k); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
