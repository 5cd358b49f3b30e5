package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output for humans. Logs go through charmbracelet/log; these
// printers write command results to stdout.

var (
	markOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("!")
	markNote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("›")

	warnText  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimText   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueText = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	keyText   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	freshText = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cacheText = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

func say(prefix, format string, args ...any) {
	fmt.Println(prefix + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { say(markOK, format, args...) }
func printError(format string, args ...any) { say(markFail, format, args...) }
func printInfo(format string, args ...any) { say(markNote, format, args...) }

func printWarning(format string, args ...any) {
	say(markWarn, "%s", warnText.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints a dimmed line under the previous one.
func printDetail(format string, args ...any) {
	fmt.Println("  " + dimText.Render(fmt.Sprintf(format, args...)))
}

// printFile names a file a command wrote.
func printFile(path string) {
	fmt.Println("  " + dimText.Render("→") + " " + valueText.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(keyText.Render(key) + " " + valueText.Render(value))
}

// printFetchStats summarizes a fetch: "200 values, shape 5x40, fresh".
func printFetchStats(count int, shape []int, cached bool) {
	dims := make([]string, len(shape))
	for i, n := range shape {
		dims[i] = fmt.Sprint(n)
	}
	origin := freshText.Render("fresh")
	if cached {
		origin = cacheText.Render("cached")
	}
	fmt.Println("  " + dimText.Render(fmt.Sprintf("%d values, shape %s, ", count, strings.Join(dims, "x"))) + origin)
}
