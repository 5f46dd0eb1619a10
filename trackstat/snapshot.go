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
	"fmt"
	"math"
)

// A Snapshot is an immutable point-in-time summary of one tracked value, the
// unit consumed by rendering and export.
//
// When Count is zero the statistics fields (Total, Mean, MeanAbs, StdDev,
// Min, Max, Quantiles) are absent and must not be read; callers special-case
// the empty snapshot via IsEmpty. They are never populated with zeros or
// NaNs standing in for "no data".
type Snapshot struct {
	// Name is the provenance label of the tracked value.
	Name string
	// Count is the number of observed values.
	Count uint64
	// Total is the sum of all observed values.
	Total int64
	// Mean is the arithmetic mean of all observed values.
	Mean float64
	// MeanAbs is the mean of the absolute observed values.
	MeanAbs float64
	// StdDev is the population standard deviation (variance normalized by
	// Count, not Count-1).
	StdDev float64
	// Min and Max are the smallest and largest observed values.
	Min int64
	Max int64
	// Buckets holds per-bucket observation counts; Buckets[b] counts the
	// observations v with BucketFor(v) == b. The counts sum to Count.
	Buckets [NumBuckets]uint64
	// Quantiles holds the estimated quantiles for the Objectives the
	// tracked value was created with, or nil.
	Quantiles map[float64]float64
}

// IsEmpty reports whether the snapshot holds no observations.
func (s Snapshot) IsEmpty() bool { return s.Count == 0 }

// Merge combines two snapshots of the same tracked value, as produced by
// per-worker shards, into one. Counts and buckets are summed elementwise,
// mean and standard deviation are combined with the parallel variance
// formula, and min/max are taken across both operands. The operation is
// commutative and associative (up to floating-point rounding in Mean and
// StdDev), so the sharding strategy is invisible to consumers. An empty
// operand acts as the identity.
//
// Quantile estimates cannot be combined; the merged snapshot carries none.
//
// Merge returns an error if the operands name different tracked values.
func Merge(a, b Snapshot) (Snapshot, error) {
	if a.Name != b.Name {
		return Snapshot{}, fmt.Errorf("trackstat: cannot merge snapshots of %q and %q", a.Name, b.Name)
	}
	if a.Count == 0 {
		out := b
		out.Quantiles = nil
		return out, nil
	}
	if b.Count == 0 {
		out := a
		out.Quantiles = nil
		return out, nil
	}

	out := Snapshot{
		Name:  a.Name,
		Count: a.Count + b.Count,
		Total: a.Total + b.Total,
	}
	na, nb := float64(a.Count), float64(b.Count)
	n := na + nb
	delta := b.Mean - a.Mean
	out.Mean = a.Mean + delta*nb/n
	out.MeanAbs = (a.MeanAbs*na + b.MeanAbs*nb) / n
	m2 := m2Of(a) + m2Of(b) + delta*delta*na*nb/n
	out.StdDev = stdDev(m2, out.Count)
	out.Min = a.Min
	if b.Min < out.Min {
		out.Min = b.Min
	}
	out.Max = a.Max
	if b.Max > out.Max {
		out.Max = b.Max
	}
	for i := range out.Buckets {
		out.Buckets[i] = a.Buckets[i] + b.Buckets[i]
	}
	return out, nil
}

// m2Of recovers the Welford M2 accumulator from a snapshot's population
// standard deviation.
func m2Of(s Snapshot) float64 {
	return s.StdDev * s.StdDev * float64(s.Count)
}

func stdDev(m2 float64, count uint64) float64 {
	if count == 0 {
		return 0
	}
	v := m2 / float64(count)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}
