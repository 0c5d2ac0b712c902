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
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var dumpFile string

var dumpCmd = &cobra.Command{
	Use:   "dump [hex...]",
	Short: "Dump every tag in a buffer",
	Long: `Dump walks a buffer tag by tag and prints each header with its content.

Application tagged primitives are decoded. Context tagged content is shown
as octets since its type depends on the property. Opening and closing
tags indent what they enclose.

Examples:
  # Dump a ReadProperty acknowledgement
  edgeo-bacnet dump 0C 00 00 00 01 19 55 3E 44 41 AC 00 00 3F

  # Dump to a JSON file
  edgeo-bacnet dump -o json -f tags.json < frame.hex`,

	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFile, "file", "f", "", "Output file (default: stdout)")
}

// DumpEntry describes one tag found in a buffer
type DumpEntry struct {
	Offset  int    `json:"offset" yaml:"offset"`
	Depth   int    `json:"depth" yaml:"depth"`
	Tag     string `json:"tag" yaml:"tag"`
	Header  string `json:"header" yaml:"header"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

// dumpTags walks data with a cursor. On error it returns the entries read
// so far along with the error.
func dumpTags(dec *bacnet.Decoder, data []byte) ([]DumpEntry, error) {
	var entries []DumpEntry
	c := dec.NewCursor(data)
	depth := 0

	for !c.Done() {
		offset := c.Offset()
		tag, headerLen, err := c.PeekTag()
		if err != nil {
			return entries, fmt.Errorf("offset %d: %w", offset, err)
		}

		entry := DumpEntry{
			Offset: offset,
			Tag:    tag.String(),
			Header: formatHex(data[offset : offset+headerLen]),
		}

		switch {
		case tag.Opening:
			entry.Depth = depth
			depth++
			_, err = c.ReadTag()
		case tag.Closing:
			if depth > 0 {
				depth--
			}
			entry.Depth = depth
			_, err = c.ReadTag()
		default:
			entry.Depth = depth
			if err = c.Skip(); err != nil {
				break
			}
			entry.Content = formatHex(data[offset+headerLen : c.Offset()])
			if !tag.IsContext() {
				v, _, derr := bacnet.DecodeApplicationData(data[offset:c.Offset()])
				if derr != nil {
					entry.Value = derr.Error()
				} else {
					entry.Value = v.String()
				}
			}
		}
		if err != nil {
			return entries, fmt.Errorf("offset %d: %w", offset, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	entries, dumpErr := dumpTags(newDecoder(), data)

	f := newFormatter()
	if dumpFile != "" {
		file, err := os.Create(dumpFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		f.SetWriter(file)
	}

	if f.Structured() {
		if err := f.PrintData(entries); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				fmt.Sprintf("%04d", e.Offset),
				strings.Repeat("  ", e.Depth) + e.Tag,
				e.Header,
				e.Content,
				e.Value,
			})
		}
		f.PrintTable([]string{"OFFSET", "TAG", "HEADER", "CONTENT", "VALUE"}, rows)
	}

	if dumpErr != nil {
		return reportError(dumpErr)
	}
	if dumpFile != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d tags to %s\n", len(entries), dumpFile)
	}
	return nil
}
