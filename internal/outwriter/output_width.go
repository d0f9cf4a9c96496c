package outwriter

import (
	"os"

	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for repository names
// and paths in table output based on terminal width.
func getMaxTableNameWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Reserve space for the numeric columns with borders and padding
	available := termWidth - 55
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 70 {
		// Maximum name width to prevent overly long paths
		return 70
	}
	return available
}

// truncateName shortens a name to the given width, keeping the tail since
// the end of a path is the most distinctive part.
func truncateName(name string, width int) string {
	if len(name) <= width {
		return name
	}
	if width <= 3 {
		return name[len(name)-width:]
	}
	return "..." + name[len(name)-(width-3):]
}
