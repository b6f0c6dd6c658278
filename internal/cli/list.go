// Package cli — list.go implements the "portscout list" command.
//
// The list command builds the full port inventory from a fresh runtime
// snapshot and presents it as a styled table or JSON, depending on the
// --json flag.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscout/internal/docker"
	"github.com/mmr-tortoise/portscout/internal/model"
	"github.com/mmr-tortoise/portscout/internal/port"
)

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List host ports bound by running containers",
		Long: `List every host port currently bound by a running container, grouped
by container. Containers without published ports are omitted.

Examples:
  portscout list
  portscout list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context())
		},
	}
}

// runList connects to the runtime, builds the inventory, and prints it.
func runList(ctx context.Context) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("Connected to Docker daemon")

	inv, err := port.NewService(cli).Inventory(ctx)
	if err != nil {
		return err
	}
	VerboseLog("Found %d containers with published ports", len(inv.Containers))

	printInventory(inv)
	return nil
}

// printInventory outputs the inventory in text or JSON format.
func printInventory(inv model.PortInventory) {
	if IsJSONOutput() {
		// The JSON shape matches the HTTP API's GET /ports response.
		data, _ := json.MarshalIndent(inv, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(inv.Containers) == 0 {
		fmt.Println("No containers with published ports.")
		return
	}

	fmt.Println(renderTable(
		[]string{"CONTAINER", "ID", "IMAGE", "STATUS", "BINDINGS"},
		inventoryRows(inv),
	))
	fmt.Println(mutedStyle.Render("used ports: " + FormatUsedPorts(inv.UsedPorts)))
}

// inventoryRows flattens the inventory into table rows, one per container.
func inventoryRows(inv model.PortInventory) [][]string {
	rows := make([][]string, 0, len(inv.Containers))
	for _, c := range inv.Containers {
		bindings := make([]string, 0, len(c.Bindings))
		for _, b := range c.Bindings {
			bindings = append(bindings, b.String())
		}
		rows = append(rows, []string{
			c.Name,
			c.ID,
			c.Image,
			c.Status,
			strings.Join(bindings, ", "),
		})
	}
	return rows
}

// FormatUsedPorts renders the used-port set as a comma-separated string.
// Returns "-" when no ports are bound. The input is already sorted
// ascending by the inventory builder.
//
// Example:
//
//	[5432, 5433, 8080] → "5432,5433,8080"
//	[]                 → "-"
func FormatUsedPorts(ports []int) string {
	if len(ports) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ",")
}
