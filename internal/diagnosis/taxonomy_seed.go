package diagnosis

// seedMisconceptions is the algebra misconception taxonomy for Unit 11.
// 14 misconceptions across 4 topics plus the diagnostic lesson.
var seedMisconceptions = []Misconception{
	// Start: diagnostic (2)
	{
		ID:          "start-wrong-operation",
		Topic:       "Start",
		Label:       "Wrong operation",
		Description: "Adds when the story calls for subtracting (or multiplies instead of adding)",
		Examples:    []string{"$25 less than $110 answered as 135", "y = d + 80 for a rate of 80 per dollar"},
	},
	{
		ID:          "start-rate-as-total",
		Topic:       "Start",
		Label:       "Rate read as total",
		Description: "Uses a per-unit rate as if it were the total change",
		Examples:    []string{"cools 2 degrees per minute, drop of 10 answered as 20"},
	},

	// 11.1: linear functions (3)
	{
		ID:          "fn-swap-fixed-variable",
		Topic:       "11.1",
		Label:       "Fixed and variable swapped",
		Description: "Attaches the variable to the fixed charge and the constant to the rate",
		Examples:    []string{"h = 10n + 5 instead of h = 5n + 10"},
	},
	{
		ID:          "fn-missing-constant",
		Topic:       "11.1",
		Label:       "Constant term dropped",
		Description: "Omits the starting value or fixed fee from the formula",
		Examples:    []string{"h = 5n instead of h = 5n + 10"},
	},
	{
		ID:          "fn-decrease-as-increase",
		Topic:       "11.1",
		Label:       "Decrease written as increase",
		Description: "Writes a quantity that goes down over time with a positive rate",
		Examples:    []string{"L = 37 + 6t instead of L = 37 - 6t"},
	},

	// 11.2: plotting graphs (3)
	{
		ID:          "plot-sign-substitution",
		Topic:       "11.2",
		Label:       "Sign slip when substituting",
		Description: "Loses the minus sign when substituting negative x values",
		Examples:    []string{"y = 2(-2) - 2 computed as 2"},
	},
	{
		ID:          "plot-swapped-coordinates",
		Topic:       "11.2",
		Label:       "Swapped coordinates",
		Description: "Plots (y, x) instead of (x, y)",
		Examples:    []string{"(5, 0) plotted for x = 0, y = 5"},
	},
	{
		ID:          "plot-order-of-operations",
		Topic:       "11.2",
		Label:       "Order of operations",
		Description: "Subtracts before multiplying when evaluating the rule",
		Examples:    []string{"2x - 2 at x = 3 computed as 2"},
	},

	// 11.3: gradient and intercept (3)
	{
		ID:          "grad-intercept-swap",
		Topic:       "11.3",
		Label:       "Gradient and intercept swapped",
		Description: "Reads c as the gradient and m as the intercept in y = mx + c",
		Examples:    []string{"y = 20x + 3 for gradient 3, intercept 20"},
	},
	{
		ID:          "grad-run-over-rise",
		Topic:       "11.3",
		Label:       "Run over rise",
		Description: "Computes the gradient as change in x over change in y",
		Examples:    []string{"gradient 1/2 for a line rising 2 per step"},
	},
	{
		ID:          "grad-sign-direction",
		Topic:       "11.3",
		Label:       "Gradient sign from direction",
		Description: "Gives a downward sloping line a positive gradient",
		Examples:    []string{"gradient 5 for a line falling 5 per step"},
	},

	// 11.4: interpreting graphs (3)
	{
		ID:          "interp-steeper-is-cheaper",
		Topic:       "11.4",
		Label:       "Steeper read as smaller",
		Description: "Thinks a steeper cost line means a lower rate",
		Examples:    []string{"picks the flatter line as the faster rate"},
	},
	{
		ID:          "interp-intercept-meaning",
		Topic:       "11.4",
		Label:       "Intercept meaning lost",
		Description: "Treats the starting value as a per-unit rate in context",
		Examples:    []string{"call-out fee of 20 read as 20 per hour"},
	},
	{
		ID:          "interp-point-as-rate",
		Topic:       "11.4",
		Label:       "Point read as rate",
		Description: "Divides a single point's coordinates to get the gradient, ignoring the intercept",
		Examples:    []string{"(5, 35) on y = 3x + 20 read as gradient 7"},
	},
}
