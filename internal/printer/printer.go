package printer

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorPrinter struct {
	Success func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Info    func(format string, a ...interface{}) string
	Debug   func(format string, a ...interface{}) string
	Label   func(format string, a ...interface{}) string
}

func NewColorPrinter() *ColorPrinter {
	return &ColorPrinter{
		Success: color.New(color.FgGreen).SprintfFunc(),
		Error:   color.New(color.FgRed).SprintfFunc(),
		Warning: color.New(color.FgYellow).SprintfFunc(),
		Info:    color.New(color.FgBlue).SprintfFunc(),
		Debug:   color.New(color.FgCyan).SprintfFunc(),
		Label:   color.New(color.Bold).SprintfFunc(),
	}
}

// NewPlainPrinter formats without escape codes, for log files and non-tty output.
func NewPlainPrinter() *ColorPrinter {
	return &ColorPrinter{
		Success: fmt.Sprintf,
		Error:   fmt.Sprintf,
		Warning: fmt.Sprintf,
		Info:    fmt.Sprintf,
		Debug:   fmt.Sprintf,
		Label:   fmt.Sprintf,
	}
}

// ForStatus picks the color matching an update state name.
func (p *ColorPrinter) ForStatus(status string) func(format string, a ...interface{}) string {
	switch status {
	case "upToDate":
		return p.Success
	case "errorDownloading":
		return p.Error
	case "readyToInstall":
		return p.Warning
	default:
		return p.Info
	}
}
