// Copyright 2026 The Trackstat Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trackstat

import (
	"io"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultRegistry is the registry the package-level Track, Register and
// DumpJSON functions operate on.
var DefaultRegistry = NewRegistry()

// AlreadyRegisteredError is returned by Registry.Register if the tracked
// value to be registered collides with an already registered name. The
// caller can pick the existing value out of the error to keep using it.
type AlreadyRegisteredError struct {
	ExistingValue, NewValue *TrackedValue
}

func (err AlreadyRegisteredError) Error() string {
	return "duplicate tracked value registration attempted: " + err.NewValue.Name()
}

// A Registry holds the tracked values of one measurement session, keyed by
// name. Registration and gathering are safe for concurrent use; observing a
// registered TrackedValue remains the business of its single owner.
type Registry struct {
	mtx    sync.RWMutex
	byHash map[uint64]*TrackedValue
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byHash: map[uint64]*TrackedValue{}}
}

// Register registers the provided TrackedValue. It returns an
// AlreadyRegisteredError if a tracked value with the same name is already
// registered.
func (r *Registry) Register(tv *TrackedValue) error {
	h := xxhash.Sum64String(tv.Name())
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if existing, ok := r.byHash[h]; ok {
		return AlreadyRegisteredError{ExistingValue: existing, NewValue: tv}
	}
	r.byHash[h] = tv
	return nil
}

// MustRegister registers the provided TrackedValues and panics upon the
// first registration that causes an error.
func (r *Registry) MustRegister(tvs ...*TrackedValue) {
	for _, tv := range tvs {
		if err := r.Register(tv); err != nil {
			panic(err)
		}
	}
}

// Unregister removes the tracked value with the given name. It returns
// whether a tracked value was removed.
func (r *Registry) Unregister(name string) bool {
	h := xxhash.Sum64String(name)
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.byHash[h]; !ok {
		return false
	}
	delete(r.byHash, h)
	return true
}

// Track returns the registered TrackedValue with the given name, creating
// and registering it first if needed. It is the call-site entry point for
// instrumentation: the first call for a name creates the counter, subsequent
// calls return the same one.
func (r *Registry) Track(name string) *TrackedValue {
	h := xxhash.Sum64String(name)
	r.mtx.RLock()
	tv, ok := r.byHash[h]
	r.mtx.RUnlock()
	if ok {
		return tv
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if tv, ok := r.byHash[h]; ok {
		return tv
	}
	tv = NewTrackedValue(Opts{Name: name})
	r.byHash[h] = tv
	return tv
}

// Gather snapshots every registered tracked value, sorted by name.
func (r *Registry) Gather() []Snapshot {
	r.mtx.RLock()
	snaps := make([]Snapshot, 0, len(r.byHash))
	for _, tv := range r.byHash {
		snaps = append(snaps, tv.Snapshot())
	}
	r.mtx.RUnlock()
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })
	return snaps
}

// DumpJSON gathers all tracked values with at least one observation and
// writes them to w as a JSON record batch, the interchange format consumed
// by the offline renderer.
func (r *Registry) DumpJSON(w io.Writer) error {
	var recs []Record
	for _, s := range r.Gather() {
		if s.IsEmpty() {
			continue
		}
		recs = append(recs, s.Record())
	}
	return EncodeRecords(w, recs)
}

// Track returns the tracked value with the given name from the
// DefaultRegistry, creating it if needed.
func Track(name string) *TrackedValue {
	return DefaultRegistry.Track(name)
}

// Register registers the provided TrackedValue with the DefaultRegistry.
func Register(tv *TrackedValue) error {
	return DefaultRegistry.Register(tv)
}

// MustRegister registers the provided TrackedValues with the DefaultRegistry
// and panics on error.
func MustRegister(tvs ...*TrackedValue) {
	DefaultRegistry.MustRegister(tvs...)
}

// DumpJSON writes the DefaultRegistry's non-empty tracked values to w as a
// JSON record batch.
func DumpJSON(w io.Writer) error {
	return DefaultRegistry.DumpJSON(w)
}
