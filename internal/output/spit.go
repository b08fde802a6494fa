// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/ghctl/internal/attrs"
	"github.com/staranto/ghctl/internal/cache"
	"github.com/staranto/ghctl/internal/config"
	"github.com/staranto/ghctl/internal/filters"
)

// Formats accepted by Options.Output.
var Formats = []string{"text", "json", "raw", "yaml"}

// NoMatchMessage is printed in text output when the filter drops every user.
const NoMatchMessage = "No users match the filter."

// Columns are the keys of every rendered row, in display order.
var Columns = []string{"username", "followers", "following", "created_at", "repos"}

// Options controls how a set of users is rendered.
type Options struct {
	// Attrs selects, titles and transforms the columns. Empty means
	// DefaultAttrs.
	Attrs    attrs.AttrList
	Output   string
	Color    bool
	Titles   bool
	Humanize bool
	Sort     string
	Filter   string
}

// DefaultAttrs returns every column, untitled and untransformed.
func DefaultAttrs() attrs.AttrList {
	al := make(attrs.AttrList, 0, len(Columns))
	for _, c := range Columns {
		al = append(al, attrs.Attr{Key: c, Include: true, OutputKey: c})
	}
	return al
}

// entry is the serialized form of one cached user.
type entry struct {
	Username string `json:"username" yaml:"username"`
	cache.UserRecord
}

// Emit filters, sorts and renders users to w according to opts.
func Emit(w io.Writer, users map[string]cache.UserRecord, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	entries := make([]entry, 0, len(users))
	for name, r := range users {
		entries = append(entries, entry{Username: name, UserRecord: r})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	// If raw, just dump it and go home.
	if opts.Output == "raw" {
		_, err := fmt.Fprintln(w, string(raw))
		return err
	}

	// Filter and sort see every column, even hidden ones.
	dataset := filters.FilterDataset(gjson.ParseBytes(raw), Columns, opts.Filter)
	SortDataset(dataset, opts.Sort)

	al := opts.Attrs
	if len(al) == 0 {
		al = DefaultAttrs()
	}
	al = al.Included()
	dataset = project(dataset, al)

	switch opts.Output {
	case "json":
		if dataset == nil {
			dataset = []map[string]interface{}{}
		}
		jsonOutput, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		// yaml.v2 sorts map keys, so the column order is alphabetical.
		yamlOutput, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	case "", "text":
		if len(dataset) == 0 {
			if len(users) > 0 {
				_, err := fmt.Fprintln(w, NoMatchMessage)
				return err
			}
			return nil
		}
		TableWriter(dataset, al, opts, w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q, must be one of %v", opts.Output, Formats)
	}
}

// project rebuilds each row with only the given attrs, keyed by their output
// key and transformed.
func project(dataset []map[string]interface{}, al attrs.AttrList) []map[string]interface{} {
	if dataset == nil {
		return nil
	}

	result := make([]map[string]interface{}, 0, len(dataset))
	for _, row := range dataset {
		out := make(map[string]interface{}, len(al))
		for i := range al {
			out[al[i].OutputKey] = al[i].Transform(row[al[i].Key])
		}
		result = append(result, out)
	}
	return result
}

// TableWriter renders the projected result set in a tabular form honoring
// color, titles and padding options.
func TableWriter(resultSet []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)
	log.Debugf("padding: %v", pad)

	titles := make([]string, 0, len(al))
	for _, a := range al {
		titles = append(titles, a.OutputKey)
	}

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(al))
		for _, a := range al {
			row = append(row, formatCell(a.Key, result[a.OutputKey], opts.Humanize))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(titles...).BorderHeader(false)
	}

	fmt.Fprintln(w, t.String())
}

// formatCell renders one table cell. Repository lists are comma-joined; with
// humanize, counters get thousands separators and RFC 3339 dates become a
// relative age.
func formatCell(col string, value interface{}, human bool) string {
	switch v := value.(type) {
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, InterfaceToString(item))
		}
		if len(parts) == 0 {
			return "-"
		}
		return strings.Join(parts, ",")
	case float64:
		if human {
			return humanize.Comma(int64(v))
		}
		return fmt.Sprintf("%.0f", v)
	case string:
		if human && col == "created_at" {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return humanize.Time(ts)
			}
		}
	}
	return InterfaceToString(value, "-")
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Every number we render is a counter, so drop the fraction.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
