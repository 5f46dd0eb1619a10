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
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordRoundTrip(t *testing.T) {
	tv := NewTrackedValue(Opts{Name: "search.go:142 reduction"})
	for _, v := range []int64{-120, -7, -1, 0, 0, 3, 3, 3, 64, 999_999} {
		tv.Observe(v)
	}
	want := tv.Snapshot()

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, []Record{want.Record()}); err != nil {
		t.Fatal(err)
	}
	recs, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("decoded %d records, want 1", len(recs))
	}
	if diff := cmp.Diff(want, recs[0].Snapshot()); diff != "" {
		t.Errorf("snapshot changed across the wire (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty batch encodes as %q, want []", got)
	}
}

func validBatchJSON() string {
	hist := make([]string, NumBuckets)
	for i := range hist {
		hist[i] = "0"
	}
	hist[ZeroBucket] = "1"
	hist[ZeroBucket-1] = "1"
	hist[ZeroBucket+1] = "1"
	return fmt.Sprintf(
		`[{"name":"x","count":3,"total":0,"avg":0.0,"avg_abs":0.66,"stddev":1.0,"min":-1,"max":1,"histogram":[%s]}]`,
		strings.Join(hist, ","))
}

func TestDecodeRecords(t *testing.T) {
	recs, err := DecodeRecords(strings.NewReader(validBatchJSON()))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Name != "x" || recs[0].Count != 3 {
		t.Errorf("unexpected decode result: %+v", recs)
	}
	s := recs[0].Snapshot()
	if s.Buckets[ZeroBucket] != 1 || s.Buckets[ZeroBucket-1] != 1 || s.Buckets[ZeroBucket+1] != 1 {
		t.Errorf("bucket counts lost in conversion: %v", s.Buckets)
	}
}

func TestDecodeRecordsErrors(t *testing.T) {
	valid := validBatchJSON()
	for _, tc := range []struct {
		name    string
		input   string
		wantSub string
	}{
		{
			name:    "malformed JSON",
			input:   `[{"name":`,
			wantSub: "decoding record batch",
		},
		{
			name:    "not an array",
			input:   `{"name":"x"}`,
			wantSub: "decoding record batch",
		},
		{
			name:    "negative count",
			input:   strings.Replace(valid, `"count":3`, `"count":-3`, 1),
			wantSub: "decoding record batch",
		},
		{
			name:    "missing name",
			input:   strings.Replace(valid, `"name":"x"`, `"name":""`, 1),
			wantSub: `record 0 (""): missing name`,
		},
		{
			name:    "short histogram",
			input:   strings.Replace(valid, "0,0,0,0]", "0]", 1),
			wantSub: `record 0 ("x"): histogram has 125 buckets, want 128`,
		},
		{
			name:    "count mismatch",
			input:   strings.Replace(valid, `"count":3`, `"count":4`, 1),
			wantSub: `record 0 ("x"): histogram counts sum to 3, want count 4`,
		},
		{
			name:    "min above max",
			input:   strings.Replace(valid, `"min":-1`, `"min":7`, 1),
			wantSub: `record 0 ("x"): min 7 exceeds max 1`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRecords(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("decode succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not contain %q", err, tc.wantSub)
			}
		})
	}
}
