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
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A Record is the wire shape of one tracked value in the JSON interchange
// format emitted by instrumented programs: a JSON array of these objects
// makes up one batch.
type Record struct {
	Name      string   `json:"name"`
	Count     uint64   `json:"count"`
	Total     int64    `json:"total"`
	Avg       float64  `json:"avg"`
	AvgAbs    float64  `json:"avg_abs"`
	StdDev    float64  `json:"stddev"`
	Min       int64    `json:"min"`
	Max       int64    `json:"max"`
	Histogram []uint64 `json:"histogram"`
}

// DecodeRecords reads a JSON record batch from r. Any malformed record
// aborts the whole batch: the returned error names the offending record's
// position and, where available, its name. A well-formed empty batch decodes
// to an empty slice without error; deciding whether that is acceptable is
// the caller's business.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("trackstat: decoding record batch: %w", err)
	}
	for i, rec := range recs {
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("trackstat: record %d (%q): %w", i, rec.Name, err)
		}
	}
	return recs, nil
}

// EncodeRecords writes recs to w as a JSON record batch. A nil slice
// encodes as an empty batch.
func EncodeRecords(w io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("trackstat: encoding record batch: %w", err)
	}
	return nil
}

func (rec Record) validate() error {
	if rec.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(rec.Histogram) != NumBuckets {
		return fmt.Errorf("histogram has %d buckets, want %d", len(rec.Histogram), NumBuckets)
	}
	var sum uint64
	for _, c := range rec.Histogram {
		sum += c
	}
	if sum != rec.Count {
		return fmt.Errorf("histogram counts sum to %d, want count %d", sum, rec.Count)
	}
	if rec.Count > 0 && rec.Min > rec.Max {
		return fmt.Errorf("min %d exceeds max %d", rec.Min, rec.Max)
	}
	return nil
}

// Snapshot converts a decoded wire record into a Snapshot.
func (rec Record) Snapshot() Snapshot {
	s := Snapshot{
		Name:  rec.Name,
		Count: rec.Count,
	}
	if rec.Count > 0 {
		s.Total = rec.Total
		s.Mean = rec.Avg
		s.MeanAbs = rec.AvgAbs
		s.StdDev = rec.StdDev
		s.Min = rec.Min
		s.Max = rec.Max
	}
	copy(s.Buckets[:], rec.Histogram)
	return s
}

// Record converts a snapshot into its wire shape. Quantile estimates are not
// part of the interchange format and are dropped.
func (s Snapshot) Record() Record {
	rec := Record{
		Name:      s.Name,
		Count:     s.Count,
		Histogram: append([]uint64(nil), s.Buckets[:]...),
	}
	if s.Count > 0 {
		rec.Total = s.Total
		rec.Avg = s.Mean
		rec.AvgAbs = s.MeanAbs
		rec.StdDev = s.StdDev
		rec.Min = s.Min
		rec.Max = s.Max
	}
	return rec
}
