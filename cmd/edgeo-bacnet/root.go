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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var (
	cfgFile      string
	outputFmt    string
	verbose      bool
	maxAPDU      int
	maxDepth     int
	propertyName string

	metrics *bacnet.Metrics
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "edgeo-bacnet",
	Short: "A BACnet tagged value codec CLI",
	Long: `edgeo-bacnet is a command-line tool for encoding and decoding BACnet
application and context tagged data.

Input is given as hex, either as arguments or on stdin. Spaces, colons
and a leading 0x are ignored.

Examples:
  # Decode the value list of a present-value property
  edgeo-bacnet decode -P present-value 3E 44 41 AC 00 00 3F

  # Encode a real as application tagged data
  edgeo-bacnet encode real 21.5

  # Show every tag in a buffer
  edgeo-bacnet dump 0C 00 00 00 01 19 55 3E 44 41 AC 00 00 3F

  # Decode frames from a capture file, one hex frame per line
  edgeo-bacnet watch --file frames.txt -P weekly-schedule`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := slog.LevelInfo
		if viper.GetBool("verbose") {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		metrics = bacnet.NewMetrics()

		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.edgeo-bacnet.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format (table, json, yaml, raw)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVar(&maxAPDU, "max-apdu", bacnet.MaxAPDULength, "Largest number of bytes one decode may read (0 = unlimited)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", bacnet.DefaultMaxDepth, "Deepest nesting of constructed data")
	rootCmd.PersistentFlags().StringVarP(&propertyName, "property", "P", "all", "Property the data belongs to (name or number)")

	// Bind flags to viper
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("max-apdu", rootCmd.PersistentFlags().Lookup("max-apdu"))
	viper.BindPFlag("max-depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("property", rootCmd.PersistentFlags().Lookup("property"))

	// Add subcommands
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".edgeo-bacnet")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BACNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newDecoder creates a decoder with the current configuration
func newDecoder() *bacnet.Decoder {
	return bacnet.NewDecoder(
		bacnet.WithMaxAPDU(viper.GetInt("max-apdu")),
		bacnet.WithMaxDepth(viper.GetInt("max-depth")),
		bacnet.WithMetrics(metrics),
		bacnet.WithLogger(logger),
	)
}

func newFormatter() *Formatter {
	return NewFormatter(viper.GetString("output"))
}

// selectedProperty resolves the --property flag
func selectedProperty() (bacnet.PropertyIdentifier, error) {
	return parsePropertyIdentifier(viper.GetString("property"))
}

func parsePropertyIdentifier(s string) (bacnet.PropertyIdentifier, error) {
	prop, ok := bacnet.ParsePropertyIdentifier(s)
	if !ok {
		return 0, fmt.Errorf("unknown property: %s", s)
	}
	return prop, nil
}

// parseHex accepts hex with optional spaces, colons, dashes and 0x
// prefixes
func parseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ':' || r == '-' || r == ',' || r == '\n' || r == '\r'
	})
	var b strings.Builder
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		b.WriteString(f)
	}
	data, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// readInput returns the bytes given as arguments, or read from stdin when
// there are none
func readInput(args []string) ([]byte, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return parseHex(strings.Join(args, " "))
	}
	raw, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return parseHex(string(raw))
}

// reportError prints err along with the BACnet error and reject reason a
// device would answer with
func reportError(err error) error {
	if err == nil {
		return nil
	}
	var decErr *bacnet.DecodeError
	if errors.As(err, &decErr) {
		logger.Debug("decode error", "offset", decErr.Offset, "property", decErr.Property.String())
	}
	if bacErr := bacnet.ErrorFor(err); bacErr != nil {
		fmt.Fprintf(os.Stderr, "%s (reject: %s)\n", bacErr, bacnet.RejectReasonFor(err))
	}
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("edgeo-bacnet version 1.0.0")
	},
}
