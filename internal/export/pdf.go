package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/brk3/habittracker/internal/stats"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Habit", 60},
	{"Category", 35},
	{"Done", 18},
	{"Streak", 18},
	{"Best", 18},
	{"30d %", 20},
}

// EncodePDF renders a one-table report with each habit's statistics as of
// today.
func EncodePDF(habits []habit.Habit, today time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(today)
	pdf.SetTitle("Habit Tracker Export", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Habit Report: %s", habit.DayKey(today)))
	pdf.Ln(14)

	if len(habits) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No habits tracked yet.")
		pdf.Ln(8)
	} else {
		pdf.SetFont("Arial", "B", 11)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		total := 0
		for _, h := range habits {
			sum := stats.Summarize(h, today)
			total += sum.TotalCompletions
			row := []string{
				tr(h.Name),
				tr(string(h.Category)),
				fmt.Sprint(sum.TotalCompletions),
				fmt.Sprint(sum.CurrentStreak),
				fmt.Sprint(sum.BestStreak),
				fmt.Sprintf("%d%%", sum.CompletionRate),
			}
			for i, c := range pdfColumns {
				align := "R"
				if i < 2 {
					align = "L"
				}
				pdf.CellFormat(c.width, 7, row[i], "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 10, fmt.Sprintf("Total Completions: %d", total))
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
