// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tuidoro/internal/model"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 7
	axisLabelWidth      = 6
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	barColor            = "\x1b[36m"
	todayColor          = "\x1b[33m"
	terminalWidthBackup = 80
)

// Eighth blocks, index = filled eighths.
var barRunes = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PlotBars renders one column per day, newest on the right. When the width
// is smaller than the series only the most recent days are drawn.
func PlotBars(w io.Writer, title string, series model.DailySeries, width, height int, forceColor bool) error {
	values := series.Minutes
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	width = max(width, minPlotWidth)
	dates := series.Dates
	if len(values) > width {
		values = values[len(values)-width:]
		if len(dates) >= width {
			dates = dates[len(dates)-width:]
		}
	}

	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	units := height * 8
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = FormatMinutes(peak)
		case height - 1:
			label = "0m"
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, label, axisSeparator))
		floor := (height - 1 - y) * 8
		for x, v := range values {
			filled := 0
			if peak > 0 {
				filled = v*units/peak - floor
			}
			ch := barRunes[max(0, min(filled, 8))]
			if useColor && ch != ' ' {
				color := barColor
				if x == len(values)-1 {
					color = todayColor
				}
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	if len(dates) > 0 {
		pad := strings.Repeat(" ", axisLabelWidth+len([]rune(axisSeparator)))
		if _, err := fmt.Fprintf(w, "%s%s .. %s\n", pad, dates[0], dates[len(dates)-1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - len([]rune(axisSeparator))
	return max(plotWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return IsTerminal(file)
}
