// Package cli implements the cobra-based CLI commands for portscout.
//
// Each subcommand (list, check, random, serve) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON for machine consumption.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (list, check, random, serve).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portscout",
		Short: "Report which host ports are occupied by running containers",
		Long: `portscout inspects the local container runtime and reports which TCP
host ports are currently bound by running containers.

It can list the full port inventory, check a single port for availability,
mint a random free port in a development-friendly range, and serve the same
answers over an HTTP API.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands, so any flag defined
	// here is automatically available without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each is defined in its own file and returns
	// a *cobra.Command.
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewRandomCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Domain errors are translated into process exit codes so scripts can
// branch on the outcome: validation failures, an unreachable daemon, and
// an exhausted generation budget each get their own code.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	printError(err.Error())
	os.Exit(int(exitCodeFor(err)))
}

// exitCodeFor maps an error to its process exit code. An explicit CLIError
// wins; otherwise the domain taxonomy decides.
func exitCodeFor(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return model.ExitInvalidPort
	}

	var runtimeErr *model.RuntimeUnavailableError
	if errors.As(err, &runtimeErr) {
		return model.ExitDockerNotRunning
	}

	var exhausted *model.ExhaustedError
	if errors.As(err, &exhausted) {
		return model.ExitNoFreePort
	}

	return model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors go to stderr
// either way, because stdout is reserved for command output.
func printError(message string) {
	if jsonOutput {
		data, _ := json.MarshalIndent(map[string]any{
			"error": map[string]any{"message": message},
		}, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
