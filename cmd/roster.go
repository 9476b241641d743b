package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/mathpath/internal/report"
	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show every learner's progress and the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cliContext(cmd, cfg)
		s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		states, err := s.ListRoster(ctx)
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		rows := report.Roster(states)
		if len(rows) == 0 {
			fmt.Println("No learners yet.")
			return nil
		}

		if pdfPath != "" {
			f, err := os.Create(pdfPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", pdfPath, err)
			}
			if err := report.WritePDF(f, rows, report.DefaultPDFConfig(), time.Now()); err != nil {
				f.Close()
				return fmt.Errorf("write report: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", pdfPath, err)
			}
			fmt.Printf("Wrote %s (%d learners)\n", pdfPath, len(rows))
			return nil
		}

		printRoster(rows)
		fmt.Println()
		printLeaderboard(report.Leaderboard(rows))

		t := report.Summarize(rows)
		fmt.Printf("\n%d learners · avg mastery %.0f%% · avg accuracy %.0f%% · %d advanced, %d on track, %d at risk\n",
			t.Learners, t.AvgMastery, t.AvgAccuracy*100,
			t.ByStatus[report.StatusAdvanced], t.ByStatus[report.StatusOnTrack], t.ByStatus[report.StatusAtRisk])
		return nil
	},
}

func init() {
	rosterCmd.Flags().String("pdf", "", "Write the roster as a PDF report to this file")
}

func printRoster(rows []report.Row) {
	fmt.Println("Roster")
	fmt.Println(strings.Repeat("─", 104))
	fmt.Printf("%-20s  %6s  %6s  %-9s  %7s  %-8s  %4s  %8s  %s\n",
		"Name", "Points", "Streak", "Path", "Mastery", "Status", "Done", "Accuracy", "Last active")
	fmt.Println(strings.Repeat("─", 104))
	for _, r := range rows {
		fmt.Printf("%-20s  %6d  %6d  %-9s  %6d%%  %-8s  %4d  %7.0f%%  %s\n",
			truncate(r.Name, 20), r.Points, r.Streak, r.Path, r.Mastery, r.Status,
			r.Completed, r.Accuracy*100, formatLastActive(r.LastActive))
	}
}

func printLeaderboard(rows []report.Row) {
	fmt.Println("Leaderboard")
	fmt.Println(strings.Repeat("─", 40))
	for i, r := range rows {
		fmt.Printf("%2d. %-24s  %6d pts\n", i+1, truncate(r.Name, 24), r.Points)
	}
}

func formatLastActive(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
