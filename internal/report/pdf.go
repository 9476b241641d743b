package report

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PDFConfig controls the page layout.
type PDFConfig struct {
	PageSize     string
	MarginsMM    float64
	FontFamily   string
	PrimaryColor [3]int
	Title        string
}

// DefaultPDFConfig is an A4 portrait report.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:     "A4",
		MarginsMM:    15,
		FontFamily:   "Helvetica",
		PrimaryColor: [3]int{52, 73, 94},
		Title:        "class progress report",
	}
}

type column struct {
	title string
	width float64 // mm
	align string
	value func(Row) string
}

var rosterColumns = []column{
	{"Name", 42, "L", func(r Row) string { return r.Name }},
	{"Points", 18, "R", func(r Row) string { return fmt.Sprint(r.Points) }},
	{"Streak", 16, "R", func(r Row) string { return fmt.Sprint(r.Streak) }},
	{"Path", 22, "L", func(r Row) string { return string(r.Path) }},
	{"Mastery", 18, "R", func(r Row) string { return fmt.Sprintf("%d%%", r.Mastery) }},
	{"Status", 22, "L", func(r Row) string { return string(r.Status) }},
	{"Accuracy", 20, "R", func(r Row) string { return fmt.Sprintf("%.0f%%", r.Accuracy*100) }},
	{"Last active", 22, "L", func(r Row) string { return lastActive(r.LastActive) }},
}

func lastActive(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// WritePDF renders the roster and leaderboard to w.
func WritePDF(w io.Writer, rows []Row, cfg PDFConfig, now time.Time) error {
	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.MarginsMM, cfg.MarginsMM, cfg.MarginsMM)
	pdf.SetCreationDate(now)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := cases.Title(language.English).String(cfg.Title)
	pdf.SetTitle(title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(cfg.FontFamily, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(cfg.FontFamily, "B", 20)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(cfg.FontFamily, "", 10)
	t := Summarize(rows)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s  |  %d learners  |  avg mastery %.0f%%  |  avg accuracy %.0f%%",
		now.Format("2006-01-02"), t.Learners, t.AvgMastery, t.AvgAccuracy*100), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, cfg, tr, "Roster")
	table(pdf, cfg, tr, rows)

	pdf.Ln(8)
	section(pdf, cfg, tr, fmt.Sprintf("Leaderboard (top %d)", LeaderboardSize))
	table(pdf, cfg, tr, Leaderboard(rows))

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, cfg PDFConfig, tr func(string) string, name string) {
	pdf.SetFont(cfg.FontFamily, "B", 14)
	pdf.CellFormat(0, 10, tr(name), "", 1, "L", false, 0, "")
}

func table(pdf *fpdf.Fpdf, cfg PDFConfig, tr func(string) string, rows []Row) {
	c := cfg.PrimaryColor
	pdf.SetFont(cfg.FontFamily, "B", 9)
	pdf.SetFillColor(c[0], c[1], c[2])
	pdf.SetTextColor(255, 255, 255)
	for _, col := range rosterColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(cfg.FontFamily, "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(240, 240, 240)
	if len(rows) == 0 {
		pdf.CellFormat(0, 7, "No learners yet.", "1", 1, "C", false, 0, "")
		return
	}
	for i, r := range rows {
		fill := i%2 == 1
		for _, col := range rosterColumns {
			pdf.CellFormat(col.width, 6, tr(col.value(r)), "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}
