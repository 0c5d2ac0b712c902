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
	"log/slog"
)

// DefaultMaxDepth bounds the nesting of constructed data
const DefaultMaxDepth = 32

// decoderOptions holds configuration for a Decoder
type decoderOptions struct {
	// Largest number of bytes a single decode call may read
	maxAPDU int

	// Deepest opening tag nesting accepted
	maxDepth int

	metrics *Metrics
	logger  *slog.Logger
}

// defaultOptions returns the default decoder options
func defaultOptions() *decoderOptions {
	return &decoderOptions{
		maxAPDU:  MaxAPDULength,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
}

// Option is a functional option for configuring a Decoder
type Option func(*decoderOptions)

// WithMaxAPDU sets the maximum number of bytes a decode call may read.
// Data beyond the limit fails with ErrBufferExceeded. Zero or a negative
// value removes the limit.
func WithMaxAPDU(n int) Option {
	return func(o *decoderOptions) {
		o.maxAPDU = n
	}
}

// WithMaxDepth sets how deeply constructed data may nest
func WithMaxDepth(depth int) Option {
	return func(o *decoderOptions) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithMetrics makes the decoder record its activity in m
func WithMetrics(m *Metrics) Option {
	return func(o *decoderOptions) {
		o.metrics = m
	}
}

// WithLogger sets the logger for the decoder
func WithLogger(logger *slog.Logger) Option {
	return func(o *decoderOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
