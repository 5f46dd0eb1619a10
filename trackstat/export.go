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

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
)

// SnapshotToMetricFamily renders a snapshot as a Prometheus cumulative
// histogram so that tracked values can ride existing Prometheus pipelines.
// Bucket upper bounds come from BucketBounds; the outermost bucket is
// covered by the implicit +Inf bound. The snapshot's provenance label, which
// is generally not a valid metric name, is sanitized for the family name and
// preserved verbatim in a "site" label.
func SnapshotToMetricFamily(s Snapshot) (*dto.MetricFamily, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("trackstat: cannot export unnamed snapshot")
	}

	h := &dto.Histogram{
		SampleCount: proto.Uint64(s.Count),
		SampleSum:   proto.Float64(float64(s.Total)),
	}
	var cum uint64
	for b := 0; b < NumBuckets; b++ {
		cum += s.Buckets[b]
		_, hi, ok := BucketBounds(b)
		if !ok {
			// Owns no integers, so its count is zero; fold into the
			// next bound.
			continue
		}
		if hi == math.MaxInt64 {
			break // implicit +Inf bucket
		}
		h.Bucket = append(h.Bucket, &dto.Bucket{
			CumulativeCount: proto.Uint64(cum),
			UpperBound:      proto.Float64(float64(hi)),
		})
	}

	return &dto.MetricFamily{
		Name: proto.String(metricName(s.Name)),
		Help: proto.String("distribution of tracked value " + s.Name),
		Type: dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{
			Label: []*dto.LabelPair{{
				Name:  proto.String("site"),
				Value: proto.String(s.Name),
			}},
			Histogram: h,
		}},
	}, nil
}

// metricName maps an arbitrary provenance label onto the Prometheus metric
// name charset [a-zA-Z_:][a-zA-Z0-9_:]*.
func metricName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
			out = append(out, c)
		case c >= '0' && c <= '9':
			if i == 0 {
				out = append(out, '_')
			}
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
