package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/equivalence"
	"github.com/abhisek/mathpath/internal/graphcheck"
	"github.com/abhisek/mathpath/internal/mathexpr"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <answer> <correct>",
	Short: "Check whether an answer is equivalent to the correct one",
	Example: `  mathpath check "2x+3" "y = 3 + 2*x"
  mathpath check "3x+2" "2x+3"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		answer, correct := args[0], args[1]
		if equivalence.Equivalent(answer, correct) {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ equivalent")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✗ not equivalent")
		if msg := diagnosis.Feedback(answer, correct, content.ParseLanguage(cfg.Language)); msg != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+msg)
		}
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <equation> <x,y>...",
	Short: "Check plotted points against a line",
	Example: `  mathpath graph "y=2x+1" 0,1 1,3
  mathpath graph "y=5-x" 1,4 2,3 --required 0,5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := parsePoints(args[1:])
		if err != nil {
			return err
		}
		reqArgs, _ := cmd.Flags().GetStringArray("required")
		required, err := parsePoints(reqArgs)
		if err != nil {
			return fmt.Errorf("required: %w", err)
		}

		out := cmd.OutOrStdout()
		if graphcheck.Validate(points, args[0], required) {
			fmt.Fprintf(out, "✓ %d point(s) on %s\n", len(points), args[0])
			return nil
		}
		fmt.Fprintln(out, "✗ not a valid plot of", args[0])
		for _, line := range graphProblems(points, args[0], required) {
			fmt.Fprintln(out, "  "+line)
		}
		return nil
	},
}

func init() {
	// Pairs contain a comma, so the slice flag is repeated rather than
	// comma-separated.
	graphCmd.Flags().StringArray("required", nil, "A point that must be plotted, as x,y (repeatable)")
}

// parsePoints reads "x,y" pairs.
func parsePoints(args []string) ([]graphcheck.Point, error) {
	pts := make([]graphcheck.Point, 0, len(args))
	for _, a := range args {
		xs, ys, ok := strings.Cut(a, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", a)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", a, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", a, err)
		}
		pts = append(pts, graphcheck.Point{X: x, Y: y})
	}
	return pts, nil
}

// graphProblems explains a failed plot point by point.
func graphProblems(points []graphcheck.Point, equation string, required []graphcheck.Point) []string {
	var out []string
	lhsText, rhsText, ok := strings.Cut(strings.ToLower(equation), "=")
	lhs, lerr := mathexpr.Parse(lhsText)
	rhs, rerr := mathexpr.Parse(rhsText)
	if !ok || lerr != nil || rerr != nil {
		return append(out, fmt.Sprintf("%q is not an equation in x and y", equation))
	}

	seen := make(map[graphcheck.Point]bool, len(points))
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		if !graphcheck.OnLine(lhs, rhs, p) {
			out = append(out, p.String()+" is not on the line")
		}
	}
	if len(seen) < graphcheck.MinPoints {
		out = append(out, fmt.Sprintf("plot at least %d distinct points", graphcheck.MinPoints))
	}
	for _, r := range required {
		if !seen[r] {
			out = append(out, r.String()+" is missing")
		}
	}
	return out
}
