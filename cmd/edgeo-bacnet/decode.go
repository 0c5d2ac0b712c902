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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var (
	decodeKind    string
	decodeTag     int
	decodeService string
	decodeStats   bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode tagged data",
	Long: `Decode parses BACnet tagged data and prints the values found.

Without --kind or --service the data is decoded as the values of the
property given with -P, until the data is used up. Context tags are
resolved against that property. With -P all, context tagged data is kept
as opaque octets or as constructed trees.

Services:
  read-property       ReadProperty request
  read-property-ack   ReadProperty acknowledgement
  write-property      WriteProperty request
  rpm-ack             ReadPropertyMultiple acknowledgement

Examples:
  # Present value list
  edgeo-bacnet decode -P present-value 44 41 AC 00 00

  # A date-list with a date range and a week-n-day entry
  edgeo-bacnet decode -P date-list 1E A4 7C 01 01 01 A4 7C 0C 1F 02 1F 2B FF FF 07

  # A bare DateTime sequence
  edgeo-bacnet decode --kind datetime A4 7C 03 0F 05 B4 0C 00 00 00

  # A context tagged real under tag 2
  edgeo-bacnet decode --kind real --tag 2 2C 41 AC 00 00

  # A ReadProperty acknowledgement
  edgeo-bacnet decode --service read-property-ack 0C 00 00 00 01 19 55 3E 44 41 AC 00 00 3F`,

	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeKind, "kind", "k", "", "Decode as this kind (e.g., datetime, weekly-schedule, real)")
	decodeCmd.Flags().IntVarP(&decodeTag, "tag", "t", -1, "Context tag number for --kind")
	decodeCmd.Flags().StringVarP(&decodeService, "service", "s", "", "Decode a service payload")
	decodeCmd.Flags().BoolVar(&decodeStats, "stats", false, "Print decoder metrics afterwards")
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	property, err := selectedProperty()
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	dec := newDecoder()
	f := newFormatter()

	switch {
	case decodeService != "":
		err = decodeServicePayload(f, dec, decodeService, data)
	case decodeKind != "":
		err = decodeAsKind(f, dec, data)
	default:
		var values []bacnet.Value
		var n int
		values, n, err = dec.DecodeKnownPropertyUntilEnd(data, property)
		if err == nil {
			logger.Debug("decoded", "property", property.String(), "values", len(values), "bytes", n)
			err = f.PrintValues(values)
		}
	}
	if err != nil {
		return reportError(err)
	}

	if decodeStats {
		return printMetrics(f, metrics.Snapshot())
	}
	return nil
}

func decodeAsKind(f *Formatter, dec *bacnet.Decoder, data []byte) error {
	kind, ok := bacnet.ParseApplicationTag(decodeKind)
	if !ok {
		return fmt.Errorf("unknown kind: %s", decodeKind)
	}

	var v bacnet.Value
	var err error
	switch {
	case decodeTag >= 0:
		if decodeTag > 254 {
			return fmt.Errorf("context tag out of range: %d", decodeTag)
		}
		v, _, err = dec.DecodeContextValue(data, uint8(decodeTag), kind)
	case kind.IsPrimitive():
		v, _, err = dec.DecodeApplicationData(data)
		if err == nil && v.Tag() != kind {
			err = fmt.Errorf("found %s, expected %s", v.Tag(), kind)
		}
	default:
		v, _, err = dec.DecodeCompound(data, kind)
	}
	if err != nil {
		return err
	}
	return f.PrintValues([]bacnet.Value{v})
}

// propertyRecord is the structured form of a property value payload
type propertyRecord struct {
	Object     string        `json:"object" yaml:"object"`
	Property   string        `json:"property" yaml:"property"`
	ArrayIndex *uint32       `json:"array_index,omitempty" yaml:"array_index,omitempty"`
	Priority   *uint8        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Values     []valueRecord `json:"values,omitempty" yaml:"values,omitempty"`
}

func newPropertyRecord(pv bacnet.PropertyValue) propertyRecord {
	rec := propertyRecord{
		Object:     pv.Object.String(),
		Property:   pv.Property.String(),
		ArrayIndex: pv.ArrayIndex,
		Priority:   pv.Priority,
	}
	if pv.Error != nil {
		rec.Error = pv.Error.Error()
	}
	for _, v := range pv.Values {
		rec.Values = append(rec.Values, newValueRecord(v))
	}
	return rec
}

func decodeServicePayload(f *Formatter, dec *bacnet.Decoder, service string, data []byte) error {
	var results []bacnet.PropertyValue
	switch service {
	case "read-property", "rp":
		ref, err := dec.DecodeReadProperty(data)
		if err != nil {
			return err
		}
		results = append(results, bacnet.PropertyValue{Object: ref.Object, Property: ref.Property, ArrayIndex: ref.ArrayIndex})
	case "read-property-ack", "rp-ack":
		pv, err := dec.DecodeReadPropertyAck(data)
		if err != nil {
			return err
		}
		results = append(results, pv)
	case "write-property", "wp":
		pv, err := dec.DecodeWriteProperty(data)
		if err != nil {
			return err
		}
		results = append(results, pv)
	case "rpm-ack", "read-property-multiple-ack":
		var err error
		results, err = dec.DecodeReadPropertyMultipleAck(data)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown service: %s", service)
	}
	return printPropertyValues(f, results)
}

func printPropertyValues(f *Formatter, results []bacnet.PropertyValue) error {
	if f.Structured() {
		records := make([]propertyRecord, len(results))
		for i, pv := range results {
			records[i] = newPropertyRecord(pv)
		}
		return f.PrintData(records)
	}

	for i, pv := range results {
		if i > 0 {
			f.Println()
		}
		index := "-"
		if pv.ArrayIndex != nil {
			index = strconv.FormatUint(uint64(*pv.ArrayIndex), 10)
		}
		f.Printf("Object:   %s\n", pv.Object)
		f.Printf("Property: %s\n", pv.Property)
		f.Printf("Index:    %s\n", index)
		if pv.Priority != nil {
			f.Printf("Priority: %d\n", *pv.Priority)
		}
		if pv.Error != nil {
			f.Printf("Error:    %s\n", pv.Error)
			continue
		}
		if len(pv.Values) > 0 {
			if err := f.PrintValues(pv.Values); err != nil {
				return err
			}
		}
	}
	return nil
}

func printMetrics(f *Formatter, snap bacnet.MetricsSnapshot) error {
	if f.Structured() {
		return f.PrintData(snap)
	}
	f.Println()
	f.PrintKeyValue(map[string]interface{}{
		"Values decoded": snap.ValuesDecoded,
		"Bytes decoded":  snap.BytesDecoded,
		"Decode errors":  snap.DecodeErrors,
		"Opaque skipped": snap.OpaqueSkipped,
		"Max depth":      snap.MaxDepth,
		"Decodes":        snap.LatencyStats.Count,
		"Avg latency":    snap.LatencyStats.Avg,
		"Max latency":    snap.LatencyStats.Max,
	}, []string{"Values decoded", "Bytes decoded", "Decode errors", "Opaque skipped", "Max depth", "Decodes", "Avg latency", "Max latency"})
	return nil
}
