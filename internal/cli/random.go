// Package cli — random.go implements the "portscout random" command.
//
// The random command mints a free host port by rejection sampling within a
// configurable range. The returned port is not reserved — it was free as of
// the snapshot used, and any race with other processes belongs to the caller.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscout/internal/docker"
	"github.com/mmr-tortoise/portscout/internal/port"
)

// randomFlags holds the flag values for the random command.
type randomFlags struct {
	// min and max bound the sampling range (both inclusive).
	min int
	max int

	// attempts is the rejection-sampling retry budget.
	attempts int
}

// NewRandomCommand creates the "random" cobra command.
func NewRandomCommand() *cobra.Command {
	flags := &randomFlags{}

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Mint a random free host port",
		Long: `Pick a random host port that no running container has bound.

The port is sampled uniformly from the configured range and checked against
the current inventory. It is NOT reserved; grab it quickly.

Examples:
  portscout random
  portscout random --min 4000 --max 4999
  portscout random --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRandom(cmd.Context(), flags)
		},
	}

	cmd.Flags().IntVar(&flags.min, "min", port.DefaultRangeLow,
		"Lower bound of the sampling range (inclusive)")
	cmd.Flags().IntVar(&flags.max, "max", port.DefaultRangeHigh,
		"Upper bound of the sampling range (inclusive)")
	cmd.Flags().IntVar(&flags.attempts, "attempts", port.DefaultMaxAttempts,
		"Maximum number of draws before giving up")

	return cmd
}

// runRandom draws a free port within the requested range.
func runRandom(ctx context.Context, flags *randomFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	svc := port.NewService(cli)
	svc.SetRange(flags.min, flags.max, flags.attempts)

	VerboseLog("Sampling range %d-%d with %d attempts", flags.min, flags.max, flags.attempts)

	portNum, err := svc.Random(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]any{
			"port":      portNum,
			"available": true,
		}, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(successMsg("port %d is free", portNum))
	return nil
}
