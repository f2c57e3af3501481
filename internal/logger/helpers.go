package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int    // -V, -VV, -VVV
	FlagQuiet        bool   // --quiet/-q
	FlagSilent       bool   // --silent/-s
	FlagJSON         bool   // --json
	FlagLogFile      string // --log-file, overrides the configured path
)

// ConfigureLoggerFromFlags wires the command line flags into Configure.
// logFile is the configured rotating log path, empty disables the file sink.
func ConfigureLoggerFromFlags(logFile string) {
	var out io.Writer = os.Stdout
	var level string
	switch {
	case FlagQuiet:
		level = "error"
	case FlagSilent:
		level = "error"
		out = io.Discard
	default:
		switch FlagVerboseCount {
		case 0:
			level = "info"
		default:
			level = "debug"
		}
	}

	if FlagLogFile != "" {
		logFile = FlagLogFile
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   out,
		File:  logFile,
	})
}
