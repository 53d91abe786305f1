package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	hitColor     = color.New(color.FgGreen, color.Bold)
	missColor    = color.New(color.FgRed)
	sectionColor = color.New(color.FgCyan)
	titleColor   = color.New(color.FgCyan, color.Bold)
	rankColor    = color.New(color.FgYellow, color.Bold)
)

// Success logs a success message with a check mark.
func Success(args ...interface{}) {
	Info("✓ " + fmt.Sprint(args...))
}

// Successf logs a formatted success message.
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// HitMiss renders an engagement outcome tag: a bold green HIT or a red
// MISS, respecting the global color setting.
func HitMiss(hit bool) string {
	if hit {
		return hitColor.Sprint("HIT ")
	}
	return missColor.Sprint("MISS")
}

// RankTag renders a leaderboard position, e.g. #1.
func RankTag(rank int) string {
	return rankColor.Sprintf("#%d", rank)
}

// LogSection creates a visual section separator
func LogSection(title string) {
	line := strings.Repeat("=", 50)
	sectionColor.Println(line)
	titleColor.Println(title)
	sectionColor.Println(line)
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	line := strings.Repeat("-", 40)
	fmt.Println(line)
	fmt.Println(title)
	fmt.Println(line)
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	fmt.Printf("%s %v\n", sectionColor.Sprintf("%s:", key), value)
}

// Table is a simple fixed-width table for terminal output.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Print prints the table
func (t *Table) Print() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range t.headers {
		fmt.Printf("%-*s  ", widths[i], h)
	}
	fmt.Println()

	for i := range t.headers {
		fmt.Print(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println()

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Printf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println()
	}
}
