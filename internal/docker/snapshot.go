package docker

import (
	"context"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// Snapshot returns a point-in-time view of the running containers, each
// paired with its port binding table.
//
// It issues one ContainerList call (running containers only) and one
// ContainerInspect per container. All data in the result comes from this
// single pass — snapshots from different calls are never mixed, which is
// the consistency guarantee the inventory builder relies on.
//
// A container that disappears between the list and its inspect is skipped:
// it is gone from the runtime, so it holds no ports. Any other daemon
// failure aborts the snapshot with a model.RuntimeUnavailableError.
func (c *Client) Snapshot(ctx context.Context) ([]model.RawContainer, error) {
	// Default ListOptions: running containers only. Stopped containers
	// hold no host ports, so they never enter the inventory.
	containers, err := c.inner.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, &model.RuntimeUnavailableError{Op: "list containers", Err: err}
	}

	snapshot := make([]model.RawContainer, 0, len(containers))
	for _, summary := range containers {
		inspect, err := c.inner.ContainerInspect(ctx, summary.ID)
		if err != nil {
			if errdefs.IsNotFound(err) {
				// Stopped or removed since the list call — no ports held.
				continue
			}
			return nil, &model.RuntimeUnavailableError{
				Op:  "inspect container " + model.ShortID(summary.ID),
				Err: err,
			}
		}

		snapshot = append(snapshot, model.RawContainer{
			ID:       summary.ID,
			Name:     rawName(summary),
			Image:    summary.Image,
			Status:   summary.Status,
			Bindings: bindingTable(inspect),
		})
	}

	return snapshot, nil
}

// rawName extracts the container's primary name as the API reports it,
// leading "/" included. Normalization is the inventory builder's job.
func rawName(summary types.Container) string {
	if len(summary.Names) == 0 {
		return ""
	}
	return summary.Names[0]
}

// bindingTable converts an inspect payload's nat.PortMap into the domain
// binding table. A container with no network settings yields a nil table.
//
// The nil-vs-populated distinction of each entry is preserved: Docker
// reports an exposed-but-unbound port as a nil binding list, and that shape
// is exactly what model.BindingTable encodes.
func bindingTable(inspect types.ContainerJSON) model.BindingTable {
	if inspect.NetworkSettings == nil || inspect.NetworkSettings.Ports == nil {
		return nil
	}
	return portMapToTable(inspect.NetworkSettings.Ports)
}

// portMapToTable is the pure mapping from the SDK's nat.PortMap to the
// domain table. Split out so it can be tested without a daemon.
func portMapToTable(ports nat.PortMap) model.BindingTable {
	table := make(model.BindingTable, len(ports))
	for containerPort, hostBindings := range ports {
		if len(hostBindings) == 0 {
			// Exposed but unbound. Keep the entry with a nil value so the
			// table still records the exposure.
			table[string(containerPort)] = nil
			continue
		}

		raw := make([]model.RawBinding, 0, len(hostBindings))
		for _, hb := range hostBindings {
			raw = append(raw, model.RawBinding{
				HostIP:   hb.HostIP,
				HostPort: hb.HostPort,
			})
		}
		table[string(containerPort)] = raw
	}
	return table
}
