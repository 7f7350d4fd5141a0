package cli

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
	dimColor  = color.New(color.Faint)
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) errorf(format string, args ...any) {
	errColor.Fprintf(a.out, format, args...)
}

func (a *App) warnf(format string, args ...any) {
	warnColor.Fprintf(a.out, format, args...)
}

func (a *App) okf(format string, args ...any) {
	okColor.Fprintf(a.out, format, args...)
}
