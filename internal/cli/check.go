// Package cli — check.go implements the "portscout check" command.
//
// The check command answers whether a single host port is free. Validation
// of the port argument happens before the runtime is contacted, so an
// out-of-range or non-numeric argument never costs a daemon round trip.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscout/internal/docker"
	"github.com/mmr-tortoise/portscout/internal/model"
	"github.com/mmr-tortoise/portscout/internal/port"
)

// NewCheckCommand creates the "check" cobra command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <port>",
		Short: "Check whether a host port is free",
		Long: `Check whether a single host port is bound by a running container.

The exit code reports the command outcome, not the port state: an occupied
port is still a successful check. Use --json and the "available" field for
scripting.

Examples:
  portscout check 8080
  portscout check 5432 --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args[0])
		},
	}
}

// runCheck parses and validates the port argument, then consults the
// inventory.
func runCheck(ctx context.Context, arg string) error {
	portNum, err := strconv.Atoi(arg)
	if err != nil {
		// Same taxonomy as an out-of-range integer: a validation failure
		// reported before any runtime interaction.
		return &model.ValidationError{
			Field:  "port",
			Reason: fmt.Sprintf("%q is not an integer", arg),
		}
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	result, err := port.NewService(cli).Check(ctx, portNum)
	if err != nil {
		return err
	}

	printCheckResult(result)
	return nil
}

// printCheckResult outputs the check result in text or JSON format.
func printCheckResult(result model.PortCheckResult) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if result.Available {
		fmt.Println(successMsg("port %d is available", result.Port))
		return
	}
	fmt.Println(failMsg("port %d is in use by %s (%s)",
		result.Port, result.UsedBy.Container, result.UsedBy.ContainerPort))
}
