package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	fatalColor   = color.New(color.FgRed, color.Bold)
)

// PrintError renders an error coloured by severity, with a recovery hint
// where one helps.
func PrintError(err error) {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	var c *color.Color
	switch coreErr.Severity {
	case core.SeverityInfo:
		c = infoColor
	case core.SeverityWarning:
		c = warningColor
	case core.SeverityFatal:
		c = fatalColor
	default:
		c = errorColor
	}

	if coreErr.Context != "" {
		c.Fprintf(os.Stderr, "%s: %s: %v\n", coreErr.Severity, coreErr.Context, coreErr)
	} else {
		c.Fprintf(os.Stderr, "%s: %v\n", coreErr.Severity, coreErr)
	}

	if hint := recoveryHint(coreErr); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
}

func recoveryHint(err *core.Error) string {
	switch err.Code {
	case core.CodeNotInRepository:
		return "run 'bittrack init' to create a repository here"
	case core.CodeState:
		if strings.Contains(err.Message, "merge is already in progress") {
			return "resolve conflicts, then run 'bittrack merge --continue' or 'bittrack merge --abort'"
		}
	}
	return ""
}

func exitCode(err error) int {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		if coreErr.Code == core.CodeSuccess {
			return 0
		}
		return int(coreErr.Code)
	}
	return 1
}
