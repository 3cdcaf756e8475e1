package commands

import (
	"fmt"
	"time"

	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, domain string, interval time.Duration) {
	// ANSI escape codes
	cyan := "\033[36m"
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Printf("\n%s%s", cyan, bold)
	fmt.Printf("   ╔═════════════════════════════════════════════╗\n")
	fmt.Printf("   ║                                             ║\n")
	fmt.Printf("   ║        p o s t f o r g e                    ║\n")
	fmt.Printf("   ║        autonomous content agent             ║\n")
	fmt.Printf("   ║                                             ║\n")
	fmt.Printf("   ╚═════════════════════════════════════════════╝%s\n\n", reset)

	fmt.Printf("%s%s┌─ postforge Info ────────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:   %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Printf("%s│%s Built:     %s\n", green, reset, versionInfo.BuildTime)
	fmt.Printf("%s│%s Verbosity: %s\n", green, reset, logger.LevelName(verbosity))
	if domain != "" {
		fmt.Printf("%s│%s Site:      %s\n", green, reset, domain)
	}
	fmt.Printf("%s│%s Interval:  %s\n", green, reset, interval)
	fmt.Printf("%s└─────────────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("\n%s%s✨ Blog posts are drafted, published, and adapted on schedule%s\n", yellow, bold, reset)
	fmt.Printf("%s💡 Press Ctrl+C to stop%s\n\n", blue, reset)
}
