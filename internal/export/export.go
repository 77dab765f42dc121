// Package export renders a snapshot of the habit collection as JSON, CSV or
// a PDF report. It never mutates what it is given.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brk3/habittracker/pkg/habit"
)

type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	PDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, CSV, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: want json, csv or pdf", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case PDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Filename is the suggested download name, e.g.
// habit-tracker-export-2024-01-31.csv.
func Filename(f Format, today time.Time) string {
	return fmt.Sprintf("habit-tracker-export-%s.%s", today.Format(time.DateOnly), f)
}

// Encode renders habits in format f. today is used by the PDF report's
// derived statistics.
func Encode(f Format, habits []habit.Habit, today time.Time) ([]byte, error) {
	switch f {
	case JSON:
		return EncodeJSON(habits)
	case CSV:
		return EncodeCSV(habits), nil
	case PDF:
		return EncodePDF(habits, today)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// EncodeJSON pretty-prints the collection with the persisted field names.
func EncodeJSON(habits []habit.Habit) ([]byte, error) {
	if habits == nil {
		habits = []habit.Habit{}
	}
	return json.MarshalIndent(habits, "", "  ")
}

var csvHeader = []string{"id", "name", "description", "category", "createdAt", "completions"}

// EncodeCSV writes one row per habit with every field double-quoted and
// embedded quotes doubled. The completions column is a count.
func EncodeCSV(habits []habit.Habit) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(csvHeader, ","))
	for _, h := range habits {
		buf.WriteByte('\n')
		row := []string{
			h.ID,
			h.Name,
			h.Description,
			string(h.Category),
			h.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(len(h.Completions)),
		}
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(field))
		}
	}
	return buf.Bytes()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
