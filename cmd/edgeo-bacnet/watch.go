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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var (
	watchFile     string
	watchInterval time.Duration
	watchCacheTTL time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Decode a stream of frames",
	Long: `Watch reads hex frames, one per line, and decodes each one as the values
of the property given with -P. Lines starting with # are ignored.

Frames that decode to something other than the previous frame are marked
with *. Repeated frames are served from a cache instead of being decoded
again. Decoder metrics are printed to stderr at every interval.

Examples:
  # Decode frames piped from another tool
  capture-tool | edgeo-bacnet watch -P present-value

  # Decode a capture file and report metrics every 5 seconds
  edgeo-bacnet watch --file frames.txt -P weekly-schedule --interval 5s`,

	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Read frames from a file instead of stdin")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second, "Metrics reporting interval (0 to disable)")
	watchCmd.Flags().DurationVar(&watchCacheTTL, "cache-ttl", 5*time.Minute, "How long decoded frames are cached")
}

// frameResult is the outcome of decoding one frame
type frameResult struct {
	Values []bacnet.Value
	Err    error
}

// frameDecoder decodes frames and caches the result by frame content
type frameDecoder struct {
	dec      *bacnet.Decoder
	property bacnet.PropertyIdentifier
	cache    *cache.Cache
	hits     int
}

func newFrameDecoder(dec *bacnet.Decoder, property bacnet.PropertyIdentifier, ttl time.Duration) *frameDecoder {
	return &frameDecoder{
		dec:      dec,
		property: property,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (fd *frameDecoder) decode(frame []byte) frameResult {
	key := fmt.Sprintf("%X", frame)
	if cached, ok := fd.cache.Get(key); ok {
		fd.hits++
		return cached.(frameResult)
	}
	values, _, err := fd.dec.DecodeKnownPropertyUntilEnd(frame, fd.property)
	res := frameResult{Values: values, Err: err}
	fd.cache.Set(key, res, cache.DefaultExpiration)
	return res
}

func runWatch(cmd *cobra.Command, args []string) error {
	property, err := selectedProperty()
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	var input io.Reader = os.Stdin
	if watchFile != "" {
		file, err := os.Open(watchFile)
		if err != nil {
			return fmt.Errorf("open frames: %w", err)
		}
		defer file.Close()
		input = file
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nStopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("read frames", "error", err)
		}
	}()

	var tick <-chan time.Time
	if watchInterval > 0 {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	fd := newFrameDecoder(newDecoder(), property, watchCacheTTL)
	f := newFormatter()
	var last []bacnet.Value
	frames := 0

	for {
		select {
		case <-ctx.Done():
			reportWatchMetrics(fd, frames)
			return nil

		case <-tick:
			reportWatchMetrics(fd, frames)

		case line, ok := <-lines:
			if !ok {
				reportWatchMetrics(fd, frames)
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			frames++

			frame, err := parseHex(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[%s] frame %d: %v\n", time.Now().Format("15:04:05.000"), frames, err)
				continue
			}

			res := fd.decode(frame)
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "[%s] frame %d: %v (reject: %s)\n",
					time.Now().Format("15:04:05.000"), frames, res.Err, bacnet.RejectReasonFor(res.Err))
				continue
			}

			changed := !valuesEqual(last, res.Values)
			if changed || viper.GetBool("verbose") {
				outputWatchValues(f, time.Now(), frames, property, res.Values, changed)
			}
			last = res.Values
		}
	}
}

func outputWatchValues(f *Formatter, t time.Time, frame int, property bacnet.PropertyIdentifier, values []bacnet.Value, changed bool) {
	if f.Structured() {
		records := make([]valueRecord, len(values))
		for i, v := range values {
			records[i] = newValueRecord(v)
		}
		f.PrintData(map[string]interface{}{
			"time":     t.Format(time.RFC3339Nano),
			"frame":    frame,
			"property": property.String(),
			"values":   records,
			"changed":  changed,
		})
		return
	}

	changeMarker := " "
	if changed {
		changeMarker = "*"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	f.Printf("[%s] %s #%d %s = %s\n",
		t.Format("15:04:05.000"),
		changeMarker,
		frame,
		property.String(),
		strings.Join(parts, ", "),
	)
}

func reportWatchMetrics(fd *frameDecoder, frames int) {
	snap := metrics.Snapshot()
	logger.Info("watch metrics",
		"frames", frames,
		"cache_hits", fd.hits,
		"cached", fd.cache.ItemCount(),
		"values", snap.ValuesDecoded,
		"bytes", snap.BytesDecoded,
		"errors", snap.DecodeErrors,
		"opaque", snap.OpaqueSkipped,
		"max_depth", snap.MaxDepth,
		"avg_latency", snap.LatencyStats.Avg,
	)
}

// valuesEqual compares decoded trees by their printed form, since
// Value.Equal does not match compound kinds
func valuesEqual(a, b []bacnet.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}
