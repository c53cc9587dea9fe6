package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"learningcenter/internal/services"
	"learningcenter/internal/store"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 12
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printOK writes a green status line to stdout unless JSON output is on.
func printOK(cmd *cobra.Command, ctx *commandContext, label, message string) {
	if ctx.jsonOutput() {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.TrimLeft(renderStatusLine(label, statusOK, message, shouldColorize(out)), " "))
}

// storeFailure prints every error the store recorded and returns a summary
// error, or nil when the log is empty.
func storeFailure(cmd *cobra.Command, st *store.Store) error {
	errs := st.Errors()
	if len(errs) == 0 {
		return nil
	}
	errOut := cmd.ErrOrStderr()
	colorize := shouldColorize(errOut)
	for _, err := range errs {
		fmt.Fprintln(errOut, renderStatusLine(services.Classify(err), statusError, err.Error(), colorize))
	}
	if len(errs) == 1 {
		return fmt.Errorf("request failed: %w", errs[0])
	}
	return fmt.Errorf("%d requests failed; first: %w", len(errs), errs[0])
}
