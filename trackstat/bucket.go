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
	"math/bits"
)

// NumBuckets is the number of histogram buckets: 64 for negative values,
// one reserved for zero, 63 for positive values. It is a design constant of
// the bucket layout, not a configuration knob; changing it would require
// re-deriving the forward and inverse mappings below.
const NumBuckets = 128

// ZeroBucket is the index of the bucket owning exactly the value 0.
const ZeroBucket = 64

// BucketFor returns the index of the bucket that v falls into.
//
// Buckets 0..63 hold negative values in decreasing magnitude (bucket 0 the
// most negative, bucket 63 the values closest to zero), bucket 64 holds only
// zero, and buckets 65..127 hold positive values in increasing magnitude.
// The scale is fineLog = floor(log2(v²)), i.e. two bucket steps per
// power-of-two magnitude doubling. Magnitudes beyond the outermost bucket
// boundaries saturate into bucket 0 or 127.
func BucketFor(v int64) int {
	if v == 0 {
		return ZeroBucket
	}
	abs := uint64(v)
	if v < 0 {
		abs = -abs
	}
	// For |v| < 2^32 the square is exact in 64 bits. Beyond that,
	// 2*floor(log2|v|) may undershoot floor(log2(v²)) by one, but every
	// such fineLog already saturates, so the bucket is unaffected.
	var fineLog int
	if abs < 1<<32 {
		fineLog = bits.Len64(abs*abs) - 1
	} else {
		fineLog = 2 * (bits.Len64(abs) - 1)
	}
	if v > 0 {
		b := ZeroBucket + 1 + fineLog
		if b > NumBuckets-1 {
			return NumBuckets - 1
		}
		return b
	}
	b := ZeroBucket - 1 - fineLog
	if b < 0 {
		return 0
	}
	return b
}

// BucketBounds returns the closed integer range [lo, hi] owned by the given
// bucket. ok is false for buckets that own no integers at all, which happens
// where the half-octave step rounds to zero width (buckets 62 and 66); such
// buckets are never returned by BucketFor and always have a zero count.
//
// Every int64 lies in exactly one bucket's range: the outermost buckets
// absorb the saturated tails, so bucket 0 extends down to math.MinInt64 and
// bucket 127 up to math.MaxInt64.
//
// BucketBounds panics if bucket is outside [0, NumBuckets): that is a
// programming error in the caller, not an input condition.
func BucketBounds(bucket int) (lo, hi int64, ok bool) {
	if bucket < 0 || bucket >= NumBuckets {
		panic(fmt.Errorf("trackstat: bucket index %d out of range [0, %d]", bucket, NumBuckets-1))
	}
	switch {
	case bucket == ZeroBucket:
		return 0, 0, true
	case bucket > ZeroBucket:
		fineLog := bucket - ZeroBucket - 1
		lo = halfOctaveLow(fineLog)
		if bucket == NumBuckets-1 {
			return lo, math.MaxInt64, true
		}
		hi = halfOctaveLow(fineLog+1) - 1
		if lo > hi {
			return 0, 0, false
		}
		return lo, hi, true
	default:
		fineLog := ZeroBucket - 1 - bucket
		mlo := halfOctaveLow(fineLog)
		if bucket == 0 {
			return math.MinInt64, -mlo, true
		}
		mhi := halfOctaveLow(fineLog+1) - 1
		if mlo > mhi {
			return 0, 0, false
		}
		return -mhi, -mlo, true
	}
}

// halfOctaveLow returns ceil(2^(fineLog/2)), the smallest magnitude whose
// squared log2 reaches fineLog. Computed with exact integer arithmetic: a
// float rounding error here would misattribute boundary values to the
// adjacent bucket.
func halfOctaveLow(fineLog int) int64 {
	if fineLog%2 == 0 {
		return 1 << uint(fineLog/2)
	}
	// ceil(sqrt(2^fineLog)) for odd fineLog. Seed from the float sqrt and
	// correct it, since float64 cannot represent 2^63 exactly. An odd power
	// of two is never a perfect square, so the ceiling is isqrt+1.
	n := uint64(1) << uint(fineLog)
	s := uint64(math.Sqrt(float64(n)))
	for s > 0 && s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return int64(s) + 1
}
