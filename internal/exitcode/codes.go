// Package exitcode defines named exit codes for the gptme-eval CLI.
package exitcode

const (
	Success            = 0   // Command finished
	Error              = 1   // Invalid args or an unexpected failure
	ConfigError        = 2   // Settings file unreadable, invalid or missing a key
	ProjectFileMissing = 3   // gptme.toml names a file that does not exist
	WorkspaceConflict  = 4   // Workspace for the run name already exists
	EvalFailed         = 5   // At least one evaluation result carries an error
	Interrupted        = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case ConfigError:
		return "ConfigError"
	case ProjectFileMissing:
		return "ProjectFileMissing"
	case WorkspaceConflict:
		return "WorkspaceConflict"
	case EvalFailed:
		return "EvalFailed"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
