package theme

import (
	"fmt"
)

// Banner returns the console banner.
func Banner() string {
	const cyan = "\033[36m"
	const red = "\033[31m"
	const reset = "\033[0m"

	return "" +
		red + "  ▌▐▌▐▌ CENSORCHECK ▐▌▐▌▐\n" + reset +
		cyan + "  ───────────────────────\n" + reset +
		"  where do your replies really land?\n"
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
