// Package datastore implements the server's shared, mutex-guarded
// key-value map: strings and sets, typed accessors, and the single
// coarse-grained lock every operation holds for the minimal span that
// covers its read-and-possibly-write sequence.
package datastore

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mickamy/memds/snapshot"
)

// ErrWrongType is returned when an operation targets a key whose
// stored value has a different tag than the operation expects.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// Value is the closed tagged union stored per key: either a string or
// a set of strings. The unexported marker method closes the set of
// implementations to the two defined in this package, the idiomatic
// Go analogue of a sum type.
type Value interface {
	isValue()
}

// StringValue is the String(s) tag.
type StringValue string

func (StringValue) isValue() {}

// SetValue is the Set(members) tag. Membership only; order is
// unspecified (spec: "returns ... an ordered sequence (order
// unspecified)").
type SetValue map[string]struct{}

func (SetValue) isValue() {}

// Store is the shared datastore: one mutex, one map, typed
// accessors, and the snapshot path Save persists to.
type Store struct {
	mu   sync.Mutex
	data map[string]Value
	path string
}

// New returns an empty Store configured to save to path, or one
// seeded from an existing map (e.g. loaded from a snapshot).
func New(path string, seed map[string]Value) *Store {
	if seed == nil {
		seed = make(map[string]Value)
	}
	return &Store{data: seed, path: path}
}

// Get returns the string stored at key, or (.., false, nil) if absent.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	sv, ok := v.(StringValue)
	if !ok {
		return "", false, ErrWrongType
	}
	return string(sv), true, nil
}

// Set stores String(value) at key, overwriting any existing tag.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = StringValue(value)
}

// Incr increments the integer stored at key (creating "0" first if
// absent) and returns the new value.
func (s *Store) Incr(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur int64
	if v, ok := s.data[key]; ok {
		sv, ok := v.(StringValue)
		if !ok {
			return 0, ErrWrongType
		}
		n, err := strconv.ParseInt(string(sv), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value is not an integer or out of range")
		}
		cur = n
	}
	cur++
	s.data[key] = StringValue(strconv.FormatInt(cur, 10))
	return cur, nil
}

// SAdd inserts Set({}) at key if absent, adds each element, and
// returns the count of elements newly inserted.
func (s *Store) SAdd(key string, elems []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	var set SetValue
	if ok {
		set, ok = v.(SetValue)
		if !ok {
			return 0, ErrWrongType
		}
	} else {
		set = make(SetValue)
		s.data[key] = set
	}

	added := 0
	for _, e := range elems {
		if _, exists := set[e]; !exists {
			set[e] = struct{}{}
			added++
		}
	}
	return added, nil
}

// SMembers returns the members of the set stored at key, or
// (nil, false, nil) if absent.
func (s *Store) SMembers(key string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	set, ok := v.(SetValue)
	if !ok {
		return nil, false, ErrWrongType
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out, true, nil
}

// Snapshot returns a point-in-time copy of the store's contents,
// suitable for persisting (see package snapshot).
func (s *Store) Snapshot() map[string]Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Value, len(s.data))
	for k, v := range s.data {
		if sv, ok := v.(SetValue); ok {
			cp := make(SetValue, len(sv))
			for m := range sv {
				cp[m] = struct{}{}
			}
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Save persists the store's current contents to its configured path
// via package snapshot. A failure is returned to the caller rather
// than panicking: per spec, a save failure is surfaced through the
// SAVE command's reply and must not crash the server.
func (s *Store) Save() error {
	return snapshot.Save(s.path, toEntries(s.Snapshot()))
}

// Load reads a snapshot file at path and constructs a Store from it,
// configured to save back to the same path. A missing or corrupt file
// is non-fatal: callers are expected to fall back to New(path, nil)
// and log the error, per spec's "load failure starts an empty store"
// contract.
func Load(path string) (*Store, error) {
	entries, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return New(path, fromEntries(entries)), nil
}

func toEntries(data map[string]Value) map[string]snapshot.Entry {
	out := make(map[string]snapshot.Entry, len(data))
	for k, v := range data {
		switch tv := v.(type) {
		case StringValue:
			out[k] = snapshot.Entry{IsSet: false, Str: string(tv)}
		case SetValue:
			members := make([]string, 0, len(tv))
			for m := range tv {
				members = append(members, m)
			}
			out[k] = snapshot.Entry{IsSet: true, Members: members}
		}
	}
	return out
}

func fromEntries(entries map[string]snapshot.Entry) map[string]Value {
	out := make(map[string]Value, len(entries))
	for k, e := range entries {
		if e.IsSet {
			set := make(SetValue, len(e.Members))
			for _, m := range e.Members {
				set[m] = struct{}{}
			}
			out[k] = set
			continue
		}
		out[k] = StringValue(e.Str)
	}
	return out
}
