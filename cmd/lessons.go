package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/spf13/cobra"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List the lesson map with problem counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cliContext(cmd, cfg)
		lang := content.ParseLanguage(cfg.Language)

		s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		custom, err := s.ListCustomProblems(ctx)
		if err != nil {
			return fmt.Errorf("list custom problems: %w", err)
		}
		counts := content.CountByLesson(custom)

		// Header.
		fmt.Printf("%-14s  %-11s  %-30s  %8s  %s\n",
			"ID", "Kind", "Title", "Problems", "Requires")
		fmt.Println(strings.Repeat("─", 90))

		for _, l := range content.Lessons() {
			title := l.Title.Get(lang)
			if len([]rune(title)) > 30 {
				title = string([]rune(title)[:27]) + "..."
			}
			problems := fmt.Sprintf("%d", counts[l.ID])
			if l.Kind == content.KindMaster {
				problems = "generated"
			}
			fmt.Printf("%-14s  %-11s  %-30s  %8s  %s\n",
				l.ID, kindName(l.Kind), title, problems, strings.Join(l.Prerequisites, ", "))
		}

		fmt.Printf("\n%d lessons, %d custom problems\n", len(content.Lessons()), len(custom))
		return nil
	},
}

func kindName(k content.LessonKind) string {
	switch k {
	case content.KindDiagnostic:
		return "diagnostic"
	case content.KindMaster:
		return "master"
	}
	return "topic"
}
