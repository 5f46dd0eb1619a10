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
	"bytes"
	"image/png"
	"reflect"
	"testing"

	"github.com/trackstat/trackstat-go/trackstat"
)

// TestIngestAndPlot walks the full offline path: a dumped JSON batch with
// one observation each in the zero bucket and its two neighbors is decoded,
// laid out, and rendered. The shown axis must span exactly the three
// populated buckets plus padding.
func TestIngestAndPlot(t *testing.T) {
	tv := trackstat.NewTrackedValue(trackstat.Opts{Name: "probe.go:7 margin"})
	tv.Observe(-1)
	tv.Observe(0)
	tv.Observe(1)

	var dump bytes.Buffer
	if err := trackstat.EncodeRecords(&dump, []trackstat.Record{tv.Snapshot().Record()}); err != nil {
		t.Fatal(err)
	}
	recs, err := trackstat.DecodeRecords(&dump)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("decoded %d records, want 1", len(recs))
	}
	s := recs[0].Snapshot()

	lo, hi, ok := populatedRange(s.Buckets)
	if !ok {
		t.Fatal("no populated buckets after round trip")
	}
	if lo != trackstat.ZeroBucket-2 || hi != trackstat.ZeroBucket+2 {
		t.Errorf("axis range = [%d, %d], want [%d, %d]", lo, hi, trackstat.ZeroBucket-2, trackstat.ZeroBucket+2)
	}
	want := []int{trackstat.ZeroBucket - 1, trackstat.ZeroBucket, trackstat.ZeroBucket + 1}
	if got := visibleBuckets(lo, hi); !reflect.DeepEqual(got, want) {
		t.Errorf("visible buckets = %v, want %v", got, want)
	}

	var out bytes.Buffer
	if err := Plot(&out, []trackstat.Snapshot{s}, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&out); err != nil {
		t.Fatalf("artifact is not a valid PNG: %v", err)
	}
}
