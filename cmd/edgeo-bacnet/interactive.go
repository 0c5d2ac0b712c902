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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive codec session",
	Long: `Interactive mode provides a REPL for encoding and decoding tagged data.

Commands:
  use <property>                        - Select the property for decoding
  decode <hex>                          - Decode values of the current property
  dump <hex>                            - Show every tag
  scan <hex>                            - Show enclosed regions
  encode <item>...                      - Encode items as hex
  info [property]                       - Show property details
  metrics                               - Show decoder metrics
  help                                  - Show help
  exit                                  - Exit interactive mode

Examples:
  bacnet> use date-list
  bacnet[date-list]> decode 0C 7C 03 0F 05
  bacnet[date-list]> encode 0:date=2024-03-15
  bacnet[date-list]> dump 1E A4 7C 01 01 01 A4 7C 0C 1F 02 1F`,

	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	property, err := selectedProperty()
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	dec := newDecoder()
	f := newFormatter()

	fmt.Println("BACnet Codec Shell")
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if property != bacnet.PropertyAll {
			fmt.Printf("bacnet[%s]> ", property)
		} else {
			fmt.Print("bacnet> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		command := strings.ToLower(parts[0])
		rest := strings.Join(parts[1:], " ")

		switch command {
		case "exit", "quit", "q":
			fmt.Println("Goodbye!")
			return nil

		case "help", "?":
			printInteractiveHelp()

		case "use":
			if len(parts) < 2 {
				fmt.Println("Usage: use <property>")
				continue
			}
			p, err := parsePropertyIdentifier(parts[1])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			property = p
			fmt.Printf("Selected %s\n", property)

		case "decode", "d":
			runInteractiveDecode(f, dec, property, rest)

		case "dump":
			runInteractiveDump(f, dec, rest)

		case "scan":
			data, err := parseHex(rest)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			regions, _, err := scanRegions(dec, data, property, 0, 0, true)
			for _, r := range regions {
				fmt.Printf("  %s[%d] at %d: enclosed %d, data %d, %d values\n",
					strings.Repeat("  ", r.Depth), r.Tag, r.Offset, r.Enclosed, r.DataLength, r.Values)
			}
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}

		case "encode", "e":
			data, err := encodeItems(parts[1:])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Println(formatHex(data))

		case "info":
			p := property
			if len(parts) >= 2 {
				if p, err = parsePropertyIdentifier(parts[1]); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
			}
			info := propertyInfo(p)
			fmt.Printf("%s (%d): %s\n", info.Property, info.Number, info.Kind)
			for n := 0; n < 255; n++ {
				if kind, ok := info.ContextTags[uint8(n)]; ok {
					fmt.Printf("  [%d] %s\n", n, kind)
				}
			}

		case "metrics":
			runInteractiveMetrics()

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", command)
		}
	}

	return nil
}

func printInteractiveHelp() {
	fmt.Println(`
Available commands:
  use <property>        Select the property context tags are resolved against
  decode <hex>          Decode values of the current property
  dump <hex>            Show every tag with its content
  scan <hex>            Show enclosed regions and their lengths
  encode <item>...      Encode items as hex
  info [property]       Show how a property decodes
  metrics               Show decoder metrics
  help                  Show this help message
  exit                  Exit interactive mode

Item format:
  kind=value, N:kind=value, {N, }N
  Examples: real=21.5, 1:unsigned=300, {3, }3

Property shortcuts:
  pv = present-value
  pa = priority-array
  rd = relinquish-default`)
}

func runInteractiveDecode(f *Formatter, dec *bacnet.Decoder, property bacnet.PropertyIdentifier, hexStr string) {
	data, err := parseHex(hexStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	values, n, err := dec.DecodeKnownPropertyUntilEnd(data, property)
	if err != nil {
		fmt.Printf("Error: %v (reject: %s)\n", err, bacnet.RejectReasonFor(err))
		return
	}
	if err := f.PrintValues(values); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%d values in %d bytes\n", len(values), n)
}

func runInteractiveDump(f *Formatter, dec *bacnet.Decoder, hexStr string) {
	data, err := parseHex(hexStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	entries, err := dumpTags(dec, data)
	for _, e := range entries {
		fmt.Printf("  %04d %s%-24s %s\n", e.Offset, strings.Repeat("  ", e.Depth), e.Tag, e.Value)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func runInteractiveMetrics() {
	m := metrics.Snapshot()

	fmt.Println("\nDecoder Metrics:")
	fmt.Printf("  Uptime:              %s\n", m.Uptime.Round(time.Second))
	fmt.Printf("  Values Decoded:      %d\n", m.ValuesDecoded)
	fmt.Printf("  Bytes Decoded:       %d\n", m.BytesDecoded)
	fmt.Printf("  Decode Errors:       %d\n", m.DecodeErrors)
	fmt.Printf("  Opaque Skipped:      %d\n", m.OpaqueSkipped)
	fmt.Printf("  Max Depth:           %d\n", m.MaxDepth)

	if m.LatencyStats.Count > 0 {
		fmt.Printf("  Avg Latency:         %s\n", m.LatencyStats.Avg.Round(time.Microsecond))
		fmt.Printf("  Min Latency:         %s\n", m.LatencyStats.Min.Round(time.Microsecond))
		fmt.Printf("  Max Latency:         %s\n", m.LatencyStats.Max.Round(time.Microsecond))
	}
	fmt.Println()
}
