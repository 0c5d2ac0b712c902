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
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var infoCmd = &cobra.Command{
	Use:   "info [property...]",
	Short: "Display codec and property information",
	Long: `Info shows how the codec treats a property: the datatype its values
decode to, and the datatype of each context tag it defines.

Without arguments it shows the decoder settings and the known kinds.

Examples:
  # Property details
  edgeo-bacnet info date-list weekly-schedule

  # Decoder settings and kinds as YAML
  edgeo-bacnet info -o yaml`,

	RunE: runInfo,
}

// PropertyInfo describes the decoding of one property
type PropertyInfo struct {
	Property    string           `json:"property" yaml:"property"`
	Number      uint32           `json:"number" yaml:"number"`
	Kind        string           `json:"kind" yaml:"kind"`
	ContextTags map[uint8]string `json:"context_tags,omitempty" yaml:"context_tags,omitempty"`
}

func propertyInfo(p bacnet.PropertyIdentifier) PropertyInfo {
	info := PropertyInfo{
		Property: p.String(),
		Number:   uint32(p),
		Kind:     "generic",
	}
	if kind := bacnet.KnownPropertyType(p); kind != bacnet.TagInvalid {
		info.Kind = kind.String()
	}
	for n := 0; n < 255; n++ {
		if kind := bacnet.ContextTagType(p, uint8(n)); kind != bacnet.TagInvalid {
			if info.ContextTags == nil {
				info.ContextTags = make(map[uint8]string)
			}
			info.ContextTags[uint8(n)] = kind.String()
		}
	}
	return info
}

func knownKinds() []bacnet.ApplicationTag {
	var kinds []bacnet.ApplicationTag
	for t := bacnet.TagNull; t <= bacnet.TagObjectID; t++ {
		kinds = append(kinds, t)
	}
	for t := bacnet.TagEmptyList; t <= bacnet.TagOpaque; t++ {
		kinds = append(kinds, t)
	}
	return kinds
}

func runInfo(cmd *cobra.Command, args []string) error {
	f := newFormatter()

	if len(args) == 0 {
		return outputCodecInfo(f)
	}

	infos := make([]PropertyInfo, 0, len(args))
	for _, arg := range args {
		p, err := parsePropertyIdentifier(arg)
		if err != nil {
			return err
		}
		infos = append(infos, propertyInfo(p))
	}

	if f.Structured() {
		return f.PrintData(infos)
	}

	for i, info := range infos {
		if i > 0 {
			f.Println()
		}
		f.Printf("=== %s (%d) ===\n\n", info.Property, info.Number)
		f.Printf("Kind: %s\n", info.Kind)
		if len(info.ContextTags) == 0 {
			continue
		}
		f.Println()
		var rows [][]string
		for n := 0; n < 255; n++ {
			if kind, ok := info.ContextTags[uint8(n)]; ok {
				rows = append(rows, []string{fmt.Sprintf("[%d]", n), kind})
			}
		}
		f.PrintTable([]string{"TAG", "KIND"}, rows)
	}
	return nil
}

func outputCodecInfo(f *Formatter) error {
	kinds := knownKinds()

	if f.Structured() {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		return f.PrintData(map[string]interface{}{
			"max_apdu":  viper.GetInt("max-apdu"),
			"max_depth": viper.GetInt("max-depth"),
			"kinds":     names,
		})
	}

	f.Printf("\n=== Decoder ===\n\n")
	f.PrintKeyValue(map[string]interface{}{
		"Max APDU":  viper.GetInt("max-apdu"),
		"Max depth": viper.GetInt("max-depth"),
	}, []string{"Max APDU", "Max depth"})

	f.Printf("\n=== Kinds ===\n\n")
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		form := "compound"
		if k.IsPrimitive() {
			form = "primitive"
		}
		rows = append(rows, []string{strconv.Itoa(int(k)), k.String(), form})
	}
	f.PrintTable([]string{"TAG", "KIND", "FORM"}, rows)
	f.Println()
	return nil
}
