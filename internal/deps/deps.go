// Package deps checks the external commands lipi shells out to.
//
// The speech engine is an external binary and ffmpeg is its audio
// decoder, so neither can be verified at build time. Check resolves a
// command the way exec will and confirms the current user may actually
// execute it, so failures surface before a transcription is attempted
// rather than halfway through one.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// Requirement defines an external command lipi relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of one requirement. Path holds the
// resolved location when the command was found.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Check resolves one requirement.
func Check(req Requirement) Status {
	command := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     command,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", command)
		return status
	}
	// LookPath trusts mode bits; Access asks the kernel whether this
	// user may execute the file, which also covers ACLs.
	if err := unix.Access(resolved, unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("binary %q is not executable: %v", resolved, err)
		return status
	}
	status.Available = true
	status.Path = resolved
	return status
}

// CheckAll resolves every requirement in order.
func CheckAll(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Check(req))
	}
	return results
}
