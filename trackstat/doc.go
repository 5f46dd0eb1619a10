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

// Package trackstat summarizes distributions of signed-integer runtime
// counters ("tracked values").
//
// A TrackedValue accumulates an online summary of one counter: observation
// count, mean and standard deviation, minimum and maximum, and a histogram of
// 128 fixed buckets laid out symmetrically about zero on a half-octave log2
// magnitude scale. The bucket layout gives fine resolution near zero and
// coarse resolution at the extremes, which suits counters whose values
// cluster near zero with occasional large outliers.
//
// Typical use inside an instrumented program:
//
//	tv := trackstat.Track("search.go:142 reduction")
//	...
//	tv.Observe(int64(reduction))
//
// At the end of a measurement session the collected values are dumped as a
// JSON batch (Registry.DumpJSON) and rendered offline, e.g. with the
// trackplot command. Snapshots taken from per-worker shards of the same
// counter can be combined with Merge.
//
// The bucket layout is a closed design constant. BucketFor maps any int64 to
// its bucket and BucketBounds reconstructs the exact integer range a bucket
// owns; together the 128 ranges partition the whole int64 domain.
package trackstat
