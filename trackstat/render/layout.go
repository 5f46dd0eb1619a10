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

package render

import (
	"fmt"
	"strings"

	"github.com/trackstat/trackstat-go/trackstat"
)

// logScaleRatio is the dynamic range of bucket counts beyond which a panel
// switches to a logarithmic count axis.
const logScaleRatio = 100

// populatedRange returns the bucket index range bracketing the non-zero
// buckets, widened by one bucket of padding on each side and clamped to the
// valid index range. ok is false when no bucket is populated.
func populatedRange(buckets [trackstat.NumBuckets]uint64) (lo, hi int, ok bool) {
	lo, hi = -1, -1
	for b, c := range buckets {
		if c == 0 {
			continue
		}
		if lo < 0 {
			lo = b
		}
		hi = b
	}
	if lo < 0 {
		return 0, 0, false
	}
	if lo > 0 {
		lo--
	}
	if hi < trackstat.NumBuckets-1 {
		hi++
	}
	return lo, hi, true
}

// visibleBuckets lists the buckets in [lo, hi] that own at least one
// integer. Buckets with an empty owned range never hold counts and are
// excluded from the axis entirely.
func visibleBuckets(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		if _, _, ok := trackstat.BucketBounds(b); ok {
			out = append(out, b)
		}
	}
	return out
}

// useLogScale reports whether the counts span a dynamic range wide enough to
// warrant a logarithmic axis: largest over smallest non-zero count exceeding
// logScaleRatio.
func useLogScale(counts []uint64) bool {
	var maxC, minNZ uint64
	for _, c := range counts {
		if c > maxC {
			maxC = c
		}
		if c > 0 && (minNZ == 0 || c < minNZ) {
			minNZ = c
		}
	}
	return minNZ > 0 && maxC > logScaleRatio*minNZ
}

// formatInt renders an integer human-readably, with K/M suffixes for
// magnitudes of at least a thousand or a million.
func formatInt(v int64) string {
	if v == 0 {
		return "0"
	}
	sign := ""
	abs := uint64(v)
	if v < 0 {
		sign = "-"
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%dM", sign, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%dK", sign, abs/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, abs)
	}
}

// bucketLabel is the axis tick label for a bucket: the low endpoint of its
// owned integer range.
func bucketLabel(b int) string {
	lo, _, ok := trackstat.BucketBounds(b)
	if !ok {
		return ""
	}
	return formatInt(lo)
}

// labelEvery decides the tick label stride so that crowded axes show a
// subset of labels.
func labelEvery(n int) int {
	if n <= 16 {
		return 1
	}
	step := n / 8
	if step < 1 {
		step = 1
	}
	return step
}

// shortName extracts a display name from a provenance label of the form
// "file:line expr", keeping the expression part and truncating it when
// overlong.
func shortName(name string) string {
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > 40 {
		name = name[:37] + "..."
	}
	return name
}

// panelTitle summarizes a snapshot for the panel heading.
func panelTitle(s trackstat.Snapshot) string {
	if s.IsEmpty() {
		return shortName(s.Name) + " (no data)"
	}
	return fmt.Sprintf("%s  n=%d avg=%.1f std=%.1f min=%d max=%d",
		shortName(s.Name), s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}
