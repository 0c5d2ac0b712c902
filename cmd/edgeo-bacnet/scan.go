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
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var scanRecursive bool

var scanCmd = &cobra.Command{
	Use:   "scan [hex...]",
	Short: "Scan a buffer for enclosed regions",
	Long: `Scan finds the regions enclosed in opening and closing tags and reports
their length measured two ways: by matching tags only, and by decoding
the values of the property given with -P.

The two lengths differ when the enclosed data does not decode as that
property. Primitive values outside any region are counted and skipped.

Examples:
  # Scan a ReadProperty acknowledgement
  edgeo-bacnet scan -P present-value 0C 00 00 00 01 19 55 3E 44 41 AC 00 00 3F

  # Descend into nested regions
  edgeo-bacnet scan -r -P weekly-schedule 3E 0E 0F 0E 0F 3F`,

	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "Scan nested regions too")
}

// Region is an enclosed region found by scan
type Region struct {
	Offset     int    `json:"offset" yaml:"offset"`
	Depth      int    `json:"depth" yaml:"depth"`
	Tag        uint8  `json:"tag" yaml:"tag"`
	Enclosed   int    `json:"enclosed_length" yaml:"enclosed_length"`
	DataLength int    `json:"data_length" yaml:"data_length"`
	Values     int    `json:"values" yaml:"values"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// scanRegions reports every region at the top level of data, and below it
// when recursive is set. base is the offset of data in the whole buffer.
func scanRegions(dec *bacnet.Decoder, data []byte, property bacnet.PropertyIdentifier, base, depth int, recursive bool) ([]Region, int, error) {
	var regions []Region
	primitives := 0
	c := dec.NewCursor(data)

	for !c.Done() {
		offset := c.Offset()
		tag, headerLen, err := c.PeekTag()
		if err != nil {
			return regions, primitives, fmt.Errorf("offset %d: %w", base+offset, err)
		}
		if !tag.Opening {
			if err := c.Skip(); err != nil {
				return regions, primitives, fmt.Errorf("offset %d: %w", base+offset, err)
			}
			primitives++
			continue
		}

		rest := data[offset:]
		enclosed, err := dec.EnclosedDataLength(rest)
		if err != nil {
			return regions, primitives, fmt.Errorf("offset %d: %w", base+offset, err)
		}
		region := Region{Offset: base + offset, Depth: depth, Tag: tag.Number, Enclosed: enclosed}

		if n, err := dec.DataLength(rest, property); err != nil {
			region.Error = err.Error()
		} else {
			region.DataLength = n
			values, _, err := dec.DecodeKnownPropertyUntilTag(rest[headerLen:], property, tag.Number)
			if err != nil {
				region.Error = err.Error()
			} else {
				region.Values = len(values)
			}
		}
		regions = append(regions, region)

		inner := rest[headerLen : headerLen+enclosed]
		if recursive && len(inner) > 0 {
			nested, _, err := scanRegions(dec, inner, property, base+offset+headerLen, depth+1, true)
			regions = append(regions, nested...)
			if err != nil {
				return regions, primitives, err
			}
		}

		if err := c.Skip(); err != nil {
			return regions, primitives, fmt.Errorf("offset %d: %w", base+offset, err)
		}
	}
	return regions, primitives, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	property, err := selectedProperty()
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	regions, primitives, scanErr := scanRegions(newDecoder(), data, property, 0, 0, scanRecursive)

	f := newFormatter()
	if f.Structured() {
		if err := f.PrintData(regions); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(regions))
		for _, r := range regions {
			dataLen := strconv.Itoa(r.DataLength)
			values := strconv.Itoa(r.Values)
			if r.Error != "" {
				dataLen, values = "-", r.Error
			}
			rows = append(rows, []string{
				fmt.Sprintf("%04d", r.Offset),
				strconv.Itoa(r.Depth),
				fmt.Sprintf("[%d]", r.Tag),
				strconv.Itoa(r.Enclosed),
				dataLen,
				values,
			})
		}
		f.PrintTable([]string{"OFFSET", "DEPTH", "TAG", "ENCLOSED", "DATA", "VALUES"}, rows)
		fmt.Fprintf(os.Stderr, "\n%d regions, %d top-level primitives\n", len(regions), primitives)
	}

	return reportError(scanErr)
}
