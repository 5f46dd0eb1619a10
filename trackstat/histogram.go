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
	"sort"

	"github.com/beorn7/perks/quantile"
)

// Opts bundles the options for creating a TrackedValue. It is mandatory to
// set Name to a non-empty string. All other fields are optional and can
// safely be left at their zero value.
type Opts struct {
	// Name identifies the tracked value. By convention it is a provenance
	// label naming the instrumented call site and expression, e.g.
	// "search.go:142 reduction". Names must be unique within a Registry.
	Name string

	// Help provides information about this tracked value.
	Help string

	// Objectives defines the quantile rank estimates with their respective
	// absolute error. If Objectives[q] = e, the estimate reported for the
	// q-quantile is guaranteed to be within the rank range
	// count*q ± count*e. Left as nil, no quantiles are estimated.
	//
	// Quantile streams do not survive Merge: merged snapshots report no
	// quantiles. Use Objectives only on counters that are not sharded.
	Objectives map[float64]float64
}

// A TrackedValue accumulates an online summary of a stream of signed-integer
// observations: count, sum, sum of absolute values, mean and variance
// (Welford's algorithm), minimum, maximum, and a histogram of NumBuckets
// fixed buckets laid out by BucketFor.
//
// A TrackedValue is owned by a single measurement session and is not safe
// for concurrent use. Concurrent producers shard one TrackedValue per worker
// and combine the results with Merge at session end.
type TrackedValue struct {
	name string
	help string

	count  uint64
	sum    int64
	sumAbs uint64
	mean   float64
	m2     float64
	min    int64
	max    int64

	buckets [NumBuckets]uint64

	objectives map[float64]float64
	sorted     []float64 // sorted keys of objectives
	stream     *quantile.Stream
}

// NewTrackedValue creates a TrackedValue based on the provided Opts. It
// panics if Opts.Name is empty.
func NewTrackedValue(opts Opts) *TrackedValue {
	if opts.Name == "" {
		panic("trackstat: tracked value needs a non-empty name")
	}
	tv := &TrackedValue{
		name: opts.Name,
		help: opts.Help,
	}
	if len(opts.Objectives) > 0 {
		tv.objectives = opts.Objectives
		tv.sorted = make([]float64, 0, len(opts.Objectives))
		for q := range opts.Objectives {
			tv.sorted = append(tv.sorted, q)
		}
		sort.Float64s(tv.sorted)
		tv.stream = quantile.NewTargeted(opts.Objectives)
	}
	return tv
}

// Name returns the provenance label the tracked value was created with.
func (tv *TrackedValue) Name() string { return tv.name }

// Help returns the help string the tracked value was created with.
func (tv *TrackedValue) Help() string { return tv.help }

// Observe records a single value. It never blocks, performs no I/O, and
// mutates no state outside the receiver.
func (tv *TrackedValue) Observe(v int64) {
	tv.count++
	tv.sum += v
	if v < 0 {
		tv.sumAbs += -uint64(v)
	} else {
		tv.sumAbs += uint64(v)
	}

	fv := float64(v)
	delta := fv - tv.mean
	tv.mean += delta / float64(tv.count)
	tv.m2 += delta * (fv - tv.mean)

	if tv.count == 1 {
		tv.min, tv.max = v, v
	} else {
		if v < tv.min {
			tv.min = v
		}
		if v > tv.max {
			tv.max = v
		}
	}

	tv.buckets[BucketFor(v)]++

	if tv.stream != nil {
		tv.stream.Insert(fv)
	}
}

// Count returns the number of values observed so far.
func (tv *TrackedValue) Count() uint64 { return tv.count }

// Snapshot freezes the current state into an immutable Snapshot. The
// receiver may keep observing afterwards; the snapshot is unaffected.
func (tv *TrackedValue) Snapshot() Snapshot {
	s := Snapshot{
		Name:    tv.name,
		Count:   tv.count,
		Buckets: tv.buckets,
	}
	if tv.count == 0 {
		return s
	}
	n := float64(tv.count)
	s.Total = tv.sum
	s.Mean = tv.mean
	s.MeanAbs = float64(tv.sumAbs) / n
	s.StdDev = stdDev(tv.m2, tv.count)
	s.Min = tv.min
	s.Max = tv.max
	if tv.stream != nil {
		s.Quantiles = make(map[float64]float64, len(tv.sorted))
		for _, q := range tv.sorted {
			s.Quantiles[q] = tv.stream.Query(q)
		}
	}
	return s
}
