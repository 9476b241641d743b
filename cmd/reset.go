package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete learner data",
	Long:  "Delete one learner (--user) or every learner (--all). Custom problems and the LLM log are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")

		switch {
		case userID != "" && all:
			return fmt.Errorf("use --user or --all, not both")
		case userID == "" && !all:
			return fmt.Errorf("specify --user <id> or --all")
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

		var targets []*learner.State
		if all {
			targets, err = s.ListRoster(ctx)
			if err != nil {
				return fmt.Errorf("list learners: %w", err)
			}
		} else {
			st, err := s.Load(ctx, userID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("learner %s not found", userID)
			}
			if err != nil {
				return fmt.Errorf("load learner: %w", err)
			}
			targets = []*learner.State{st}
		}
		if len(targets) == 0 {
			fmt.Println("No learners to delete.")
			return nil
		}

		if !yes {
			fmt.Printf("Delete %d learner(s)? This cannot be undone. [y/N] ", len(targets))
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		for _, st := range targets {
			if err := s.Delete(ctx, st.UserID); err != nil {
				return fmt.Errorf("delete %s: %w", st.UserID, err)
			}
			fmt.Printf("Deleted %s (%s)\n", st.Name, st.UserID)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().String("user", "", "User id to delete (shown by roster)")
	resetCmd.Flags().Bool("all", false, "Delete every learner")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
