package errs

import "fmt"

type Code string

const (
	MissingDirective     Code = "MISSING_DIRECTIVE"
	UnknownDirective     Code = "UNKNOWN_DIRECTIVE"
	MissingInstallerPath Code = "MISSING_INSTALLER_PATH"
	InvalidOutputFormat  Code = "INVALID_OUTPUT_FORMAT"
)

var messages = map[Code]string{
	MissingDirective: `Missing directive: %[1]s must be invoked with a stage

Usage:
  - Acquire the installer and relaunch elevated:
      %[1]s stage1
  - Run a downloaded installer (elevated):
      %[1]s stage2 <installer path>`,

	UnknownDirective: `Unknown directive %[2]q

Valid directives: stage1, stage2, prefetch, status`,

	MissingInstallerPath: `stage2 requires the installer path

Usage:
  %[1]s stage2 <installer path>

Reason:
  stage2 is started by stage1 with the path of the downloaded installer.`,

	InvalidOutputFormat: `Invalid --output %[2]q

Usage:
  %[1]s status --output table
  %[1]s status --output yaml`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
