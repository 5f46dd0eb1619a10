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
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestSnapshotToMetricFamily(t *testing.T) {
	tv := NewTrackedValue(Opts{Name: "search.go:142 reduction"})
	for _, v := range []int64{-100, -1, 0, 1, 1, 30, 500} {
		tv.Observe(v)
	}
	s := tv.Snapshot()

	mf, err := SnapshotToMetricFamily(s)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := mf.GetName(), "search_go:142_reduction"; got != want {
		t.Errorf("family name = %q, want %q", got, want)
	}
	if mf.GetType() != dto.MetricType_HISTOGRAM {
		t.Errorf("family type = %v, want HISTOGRAM", mf.GetType())
	}
	if len(mf.Metric) != 1 {
		t.Fatalf("family has %d metrics, want 1", len(mf.Metric))
	}
	m := mf.Metric[0]
	if len(m.Label) != 1 || m.Label[0].GetName() != "site" || m.Label[0].GetValue() != s.Name {
		t.Errorf("site label missing or wrong: %v", m.Label)
	}

	h := m.GetHistogram()
	if h.GetSampleCount() != s.Count {
		t.Errorf("sample count = %d, want %d", h.GetSampleCount(), s.Count)
	}
	if h.GetSampleSum() != float64(s.Total) {
		t.Errorf("sample sum = %g, want %g", h.GetSampleSum(), float64(s.Total))
	}

	prevBound := float64(0)
	prevCum := uint64(0)
	for i, b := range h.Bucket {
		if i > 0 && b.GetUpperBound() <= prevBound {
			t.Errorf("bucket %d: bound %g not above previous %g", i, b.GetUpperBound(), prevBound)
		}
		if b.GetCumulativeCount() < prevCum {
			t.Errorf("bucket %d: cumulative count %d below previous %d", i, b.GetCumulativeCount(), prevCum)
		}
		prevBound = b.GetUpperBound()
		prevCum = b.GetCumulativeCount()
	}
	if prevCum != s.Count {
		// Only the implicit +Inf bucket may hold more, and nothing here
		// saturates.
		t.Errorf("last cumulative count = %d, want %d", prevCum, s.Count)
	}
}

func TestSnapshotToMetricFamilyUnnamed(t *testing.T) {
	if _, err := SnapshotToMetricFamily(Snapshot{}); err == nil {
		t.Error("exporting an unnamed snapshot did not fail")
	}
}

func TestMetricName(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"search.go:142 reduction", "search_go:142_reduction"},
		{"9lives", "_9lives"},
		{"already_fine", "already_fine"},
	} {
		if got := metricName(tc.in); got != tc.want {
			t.Errorf("metricName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
