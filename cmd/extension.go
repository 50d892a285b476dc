package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

const (
	EnvBookFile        = "LCS_BOOK_FILE"
	EnvAssumptionsFile = "LCS_ASSUMPTIONS_FILE"
)

// RunExtension attempts to find and execute an external lcs-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "lcs-" + subcommand

	// Not finding one is the normal case: the commander prints its own
	// usage for unknown subcommands, so stay quiet here.
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	// Found external command, execute it
	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables. The book path is resolved
	// first, so extensions see the effective path even when it comes from
	// the environment or the default.
	cmd.Env = os.Environ() // Start with existing environment variables
	cmd.Env = append(cmd.Env, EnvBookFile+"="+BookPath())
	cmd.Env = append(cmd.Env, EnvAssumptionsFile+"="+*assumptionsFile)

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		// If it's not an ExitError or we can't get the status, report a generic error
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)

		return true, 1 // Indicate that an attempt was made, but it failed
	}

	return true, 0 // External command executed successfully with exit code 0
}
