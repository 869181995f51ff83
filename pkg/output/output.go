/*
 * Copyright (c) 2024, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data as a formatted table (default)
	FormatTable Format = "table"
	// FormatJSON outputs data as JSON
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML
	FormatYAML Format = "yaml"
)

// ValidFormats returns all valid output formats
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML)}
}

// IsValidFormat checks if the given format string is valid
func IsValidFormat(format string) bool {
	switch Format(format) {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// TableData is implemented by everything the commands print.
type TableData interface {
	// Headers returns the column headers for the table
	Headers() []string
	// Rows returns the data rows for the table
	Rows() [][]string
}

// Formatter renders TableData as a table, or as a list of records keyed by
// column for json and yaml.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter with the specified format
func NewFormatter(format string) (*Formatter, error) {
	if format == "" {
		format = string(FormatTable)
	}
	if !IsValidFormat(format) {
		return nil, fmt.Errorf("invalid output format %q, must be one of: %s",
			format, strings.Join(ValidFormats(), ", "))
	}
	return &Formatter{
		format: Format(format),
		writer: os.Stdout,
	}, nil
}

// SetWriter sets the output writer (useful for testing)
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
}

// Writer returns the output writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Format returns the current format
func (f *Formatter) Format() Format {
	return f.format
}

// Print outputs data in the configured format.
func (f *Formatter) Print(data TableData) error {
	switch f.format {
	case FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(Records(data))
	case FormatYAML:
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(Records(data)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return f.printTable(data)
	}
}

func (f *Formatter) printTable(data TableData) error {
	w := tabwriter.NewWriter(f.writer, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, strings.Join(data.Headers(), "\t"))
	for _, row := range data.Rows() {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// Records converts data to one map per row keyed by the snake_cased
// column header. Missing cells are empty strings.
func Records(data TableData) []map[string]string {
	headers := data.Headers()
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	}

	rows := data.Rows()
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(row) {
				rec[k] = row[i]
			} else {
				rec[k] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
