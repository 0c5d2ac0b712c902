// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGaugeSetMax(t *testing.T) {
	var g Gauge
	g.SetMax(3)
	g.SetMax(1)
	assert.Equal(t, int64(3), g.Value())
	g.SetMax(5)
	assert.Equal(t, int64(5), g.Value())
	g.Set(0)
	assert.Zero(t, g.Value())
}

func TestLatencyHistogram(t *testing.T) {
	h := NewLatencyHistogram()
	assert.Zero(t, h.Stats().Min)

	h.Record(500 * time.Nanosecond)
	h.Record(20 * time.Microsecond)
	h.Record(time.Second)

	stats := h.Stats()
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 500*time.Nanosecond, stats.Min)
	assert.Equal(t, time.Second, stats.Max)
	assert.Len(t, stats.Buckets, len(latencyBounds)+1)
	assert.Equal(t, int64(1), stats.Buckets[0])
	assert.Equal(t, int64(1), stats.Buckets[3])
	assert.Equal(t, int64(1), stats.Buckets[len(latencyBounds)])

	h.Reset()
	assert.Zero(t, h.Stats().Count)
}
