package tui

import (
	"os"

	"golang.org/x/term"
)

// ciVars are set by hosted CI runners, where nothing is drawn or asked.
var ciVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"JENKINS_HOME",
	"BUILDKITE",
	"DRONE",
	"TF_BUILD",
}

// isTerminal is swapped in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}

// IsInteractive reports whether progress can be drawn: stdout is a
// terminal and no CI runner is detected.
func IsInteractive() bool {
	return isTerminal(os.Stdout) && !inCI()
}

// CanPrompt reports whether a question can be both shown and answered.
// On top of IsInteractive it needs stdin on a terminal, so a redirected
// stdin falls back to the default answer instead of failing the prompt.
func CanPrompt() bool {
	return IsInteractive() && isTerminal(os.Stdin)
}

func inCI() bool {
	for _, env := range ciVars {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
