package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"

	"ggnmatch/internal/matching"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// renderResultLine formats a result as "name, status, url".
func renderResultLine(result matching.Result, colorize bool) string {
	status := result.Outcome.Status()
	if colorize {
		if color := outcomeColor(result.Outcome.Kind); color != "" {
			status = color + status + ansiReset
		}
	}
	return fmt.Sprintf("%s, %s, %s", result.Entry.Name, status, result.GroupURL)
}

func outcomeColor(kind matching.Kind) string {
	switch kind {
	case matching.KindHighConfidence:
		return ansiGreen
	case matching.KindPreferredPlatform:
		return ansiYellow
	case matching.KindNoMatch:
		return ansiRed
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// consoleSink prints each result as it is produced.
type consoleSink struct {
	out      io.Writer
	colorize bool
}

func newConsoleSink(out io.Writer) *consoleSink {
	return &consoleSink{out: out, colorize: shouldColorize(out)}
}

func (s *consoleSink) Write(_ context.Context, result matching.Result) error {
	_, err := fmt.Fprintln(s.out, renderResultLine(result, s.colorize))
	return err
}

func renderSummary(summary matching.Summary) string {
	rows := [][]string{
		{"High confidence", strconv.Itoa(summary.ByKind[matching.KindHighConfidence])},
		{"Preferred platform", strconv.Itoa(summary.ByKind[matching.KindPreferredPlatform])},
		{"No match", strconv.Itoa(summary.ByKind[matching.KindNoMatch])},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Request failures", strconv.Itoa(summary.TransportFailed)},
		{"Rate limit wait", formatWait(summary.Waited)},
	}
	return renderTable([]string{"Outcome", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func formatWait(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(100 * time.Millisecond).String()
}
