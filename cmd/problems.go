package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Manage custom problems",
}

var problemsAddCmd = &cobra.Command{
	Use:   "add <file.json>",
	Short: "Add problems from a JSON array, replacing any with the same id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		problems, err := content.DecodeProblems(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}
		if len(problems) == 0 {
			return fmt.Errorf("%s contains no problems", args[0])
		}
		if err := content.ValidateProblems(problems); err != nil {
			return fmt.Errorf("invalid problems:\n%w", err)
		}

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

		for _, p := range problems {
			if err := s.SaveCustomProblem(ctx, p); err != nil {
				return fmt.Errorf("save %s: %w", p.ID, err)
			}
		}
		fmt.Printf("Added %d problem(s).\n", len(problems))
		return nil
	},
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		lesson, _ := cmd.Flags().GetString("lesson")

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

		problems, err := s.ListCustomProblems(ctx)
		if err != nil {
			return fmt.Errorf("list custom problems: %w", err)
		}
		if lesson != "" {
			kept := problems[:0]
			for _, p := range problems {
				if content.MatchesLesson(p.LessonID, lesson) {
					kept = append(kept, p)
				}
			}
			problems = kept
		}

		if len(problems) == 0 {
			fmt.Println("No custom problems found.")
			return nil
		}

		// Header.
		fmt.Printf("%-20s  %-10s  %-10s  %-18s  %s\n",
			"ID", "Lesson", "Difficulty", "Type", "Question")
		fmt.Println(strings.Repeat("─", 100))

		for _, p := range problems {
			q := strings.Join(strings.Fields(p.Question.Get(lang)), " ")
			if len([]rune(q)) > 36 {
				q = string([]rune(q)[:33]) + "..."
			}
			fmt.Printf("%-20s  %-10s  %-10s  %-18s  %s\n",
				p.ID, p.LessonID, p.Difficulty, p.Type(), q)
		}

		fmt.Printf("\n%d problems\n", len(problems))
		return nil
	},
}

func init() {
	problemsListCmd.Flags().String("lesson", "", "Only problems for this lesson (e.g. 11.2)")

	problemsCmd.AddCommand(problemsAddCmd)
	problemsCmd.AddCommand(problemsListCmd)
}
