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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var (
	encodeService  string
	encodeObject   string
	encodeIndex    int
	encodePriority int
	encodeWrap     int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <item>...",
	Short: "Encode values as tagged data",
	Long: `Encode writes values as BACnet tagged data and prints the result as hex.

Each item is one of:
  kind=value       an application tagged value
  N:kind=value     a value under context tag N
  {N               an opening tag N
  }N               a closing tag N

Kinds and value syntax:
  null, boolean (true/false), unsigned, signed, real, double,
  octet-string (hex), character-string (text), bit-string (e.g. 0110),
  enumerated, date (2024-03-15 or *), time (14:30:00.50 or *),
  object-identifier (analog-input:1 or ai:1)

Services:
  read-property       ReadProperty request for --object and -P
  read-property-ack   ReadProperty acknowledgement carrying the items
  write-property      WriteProperty request carrying the items

Examples:
  # Application tagged real
  edgeo-bacnet encode real=21.5

  # Context tagged unsigned under tag 1
  edgeo-bacnet encode 1:unsigned=300

  # A priority array slot list
  edgeo-bacnet encode {3 null=  real=72.5 }3

  # WriteProperty at priority 8
  edgeo-bacnet encode --service write-property --object av:3 -P pv --priority 8 real=42`,

	Args: cobra.ArbitraryArgs,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeService, "service", "s", "", "Encode a service payload")
	encodeCmd.Flags().StringVarP(&encodeObject, "object", "O", "", "Object type and instance for --service (e.g., analog-input:1 or ai:1)")
	encodeCmd.Flags().IntVar(&encodeIndex, "index", -1, "Array index for --service (-1 for no index)")
	encodeCmd.Flags().IntVar(&encodePriority, "priority", 0, "WriteProperty priority (1-16, 0 for none)")
	encodeCmd.Flags().IntVar(&encodeWrap, "wrap", -1, "Enclose the items in opening and closing tag N")
}

func runEncode(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error

	if encodeService != "" {
		data, err = encodeServicePayload(args)
	} else {
		data, err = encodeItems(args)
		if err == nil && encodeWrap >= 0 {
			if encodeWrap > 254 {
				return fmt.Errorf("tag number out of range: %d", encodeWrap)
			}
			tagNum := uint8(encodeWrap)
			data = append(append(bacnet.EncodeOpeningTag(tagNum), data...), bacnet.EncodeClosingTag(tagNum)...)
		}
	}
	if err != nil {
		return err
	}

	f := newFormatter()
	if f.Structured() {
		return f.PrintData(map[string]interface{}{
			"hex":    fmt.Sprintf("%X", data),
			"length": len(data),
		})
	}
	f.Println(formatHex(data))
	return nil
}

func encodeServicePayload(args []string) ([]byte, error) {
	if encodeObject == "" {
		return nil, fmt.Errorf("--object is required with --service")
	}
	objectID, err := bacnet.ParseObjectIdentifier(strings.ToLower(encodeObject))
	if err != nil {
		return nil, fmt.Errorf("invalid object: %w", err)
	}
	property, err := selectedProperty()
	if err != nil {
		return nil, fmt.Errorf("invalid property: %w", err)
	}

	pv := bacnet.PropertyValue{Object: objectID, Property: property}
	if encodeIndex >= 0 {
		index := uint32(encodeIndex)
		pv.ArrayIndex = &index
	}
	for _, arg := range args {
		v, err := parseValueItem(arg)
		if err != nil {
			return nil, err
		}
		pv.Values = append(pv.Values, v)
	}

	switch encodeService {
	case "read-property", "rp":
		return bacnet.EncodeReadProperty(bacnet.ObjectPropertyReference{
			Object:     pv.Object,
			Property:   pv.Property,
			ArrayIndex: pv.ArrayIndex,
		})
	case "read-property-ack", "rp-ack":
		return bacnet.EncodeReadPropertyAck(pv)
	case "write-property", "wp":
		if encodePriority != 0 {
			if encodePriority < 0 || encodePriority > 255 {
				return nil, fmt.Errorf("invalid priority: %d", encodePriority)
			}
			priority := uint8(encodePriority)
			pv.Priority = &priority
		}
		return bacnet.EncodeWriteProperty(pv)
	}
	return nil, fmt.Errorf("unknown service: %s", encodeService)
}

// encodeItems encodes the item syntax accepted by the encode command
func encodeItems(items []string) ([]byte, error) {
	var data []byte
	for _, item := range items {
		switch {
		case strings.HasPrefix(item, "{"), strings.HasPrefix(item, "}"):
			tagNum, err := strconv.ParseUint(item[1:], 10, 8)
			if err != nil || tagNum > 254 {
				return nil, fmt.Errorf("invalid tag number in %q", item)
			}
			if item[0] == '{' {
				data = append(data, bacnet.EncodeOpeningTag(uint8(tagNum))...)
			} else {
				data = append(data, bacnet.EncodeClosingTag(uint8(tagNum))...)
			}
		default:
			v, err := parseValueItem(item)
			if err != nil {
				return nil, err
			}
			if data, err = bacnet.AppendValue(data, v); err != nil {
				return nil, fmt.Errorf("encode %q: %w", item, err)
			}
		}
	}
	return data, nil
}

// parseValueItem parses "kind=value" or "N:kind=value"
func parseValueItem(item string) (bacnet.Value, error) {
	spec, text, ok := strings.Cut(item, "=")
	if !ok {
		return bacnet.Value{}, fmt.Errorf("invalid item %q: expected kind=value", item)
	}

	var v bacnet.Value
	if ctx, kind, found := strings.Cut(spec, ":"); found {
		tagNum, err := strconv.ParseUint(ctx, 10, 8)
		if err != nil || tagNum > 254 {
			return bacnet.Value{}, fmt.Errorf("invalid context tag in %q", item)
		}
		v.ContextSpecific = true
		v.ContextTag = uint8(tagNum)
		spec = kind
	}

	kind, ok := bacnet.ParseApplicationTag(spec)
	if !ok {
		return bacnet.Value{}, fmt.Errorf("unknown kind %q", spec)
	}
	datum, err := parseDatum(kind, text)
	if err != nil {
		return bacnet.Value{}, fmt.Errorf("invalid %s %q: %w", kind, text, err)
	}
	v.Data = datum
	return v, nil
}

func parseDatum(kind bacnet.ApplicationTag, text string) (bacnet.Datum, error) {
	switch kind {
	case bacnet.TagNull:
		return bacnet.Null{}, nil
	case bacnet.TagBoolean:
		b, err := strconv.ParseBool(text)
		return bacnet.Boolean(b), err
	case bacnet.TagUnsignedInt:
		u, err := strconv.ParseUint(text, 0, 64)
		return bacnet.Unsigned(u), err
	case bacnet.TagSignedInt:
		i, err := strconv.ParseInt(text, 0, 64)
		return bacnet.Signed(i), err
	case bacnet.TagReal:
		r, err := strconv.ParseFloat(text, 32)
		return bacnet.Real(r), err
	case bacnet.TagDouble:
		d, err := strconv.ParseFloat(text, 64)
		return bacnet.Double(d), err
	case bacnet.TagOctetString:
		if text == "" {
			return bacnet.OctetString{}, nil
		}
		b, err := parseHex(text)
		return bacnet.OctetString(b), err
	case bacnet.TagCharacterString:
		return bacnet.NewCharacterString(text), nil
	case bacnet.TagBitString:
		bits := make([]bool, len(text))
		for i, r := range text {
			switch r {
			case '0':
			case '1':
				bits[i] = true
			default:
				return nil, fmt.Errorf("bit %d is %q", i, r)
			}
		}
		return bacnet.BitStringFromBools(bits...), nil
	case bacnet.TagEnumerated:
		e, err := strconv.ParseUint(text, 0, 32)
		return bacnet.Enumerated(e), err
	case bacnet.TagDate:
		return parseDate(text)
	case bacnet.TagTime:
		return parseTime(text)
	case bacnet.TagObjectID:
		return bacnet.ParseObjectIdentifier(strings.ToLower(text))
	case bacnet.TagEmptyList:
		return bacnet.EmptyList{}, nil
	}
	return nil, fmt.Errorf("kind has no text form")
}

// parseDate accepts YYYY-MM-DD or * for a fully unspecified date
func parseDate(text string) (bacnet.Date, error) {
	if text == "*" {
		return bacnet.Date{Year: bacnet.Unspecified, Month: bacnet.Unspecified, Day: bacnet.Unspecified, Weekday: bacnet.Unspecified}, nil
	}
	t, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return bacnet.Date{}, err
	}
	return bacnet.NewDate(t.Year(), t.Month(), t.Day()), nil
}

// parseTime accepts HH:MM[:SS[.hh]] or * for a fully unspecified time
func parseTime(text string) (bacnet.Time, error) {
	if text == "*" {
		return bacnet.NewTime(bacnet.Unspecified, bacnet.Unspecified, bacnet.Unspecified, bacnet.Unspecified), nil
	}
	clock, frac, _ := strings.Cut(text, ".")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return bacnet.Time{}, fmt.Errorf("expected HH:MM[:SS[.hh]]")
	}
	if frac != "" {
		if len(parts) != 3 {
			return bacnet.Time{}, fmt.Errorf("hundredths need seconds")
		}
		parts = append(parts, frac)
	}
	limits := []uint64{23, 59, 59, 99}
	fields := make([]uint8, 4)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil || n > limits[i] {
			return bacnet.Time{}, fmt.Errorf("field %q out of range", p)
		}
		fields[i] = uint8(n)
	}
	return bacnet.NewTime(fields[0], fields[1], fields[2], fields[3]), nil
}

func formatHex(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
