package port

import (
	"sort"
	"strconv"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// Build aggregates a raw container snapshot into a PortInventory.
//
// It is a pure function with no failure modes of its own: malformed
// per-container data is tolerated rather than propagated, so one bad
// container never blocks the whole inventory.
//
// Algorithm:
//  1. Walk each container's binding table. A nil table (no network settings
//     reported) means zero bindings — the container is simply skipped.
//  2. For each container-port entry with at least one host binding, emit one
//     PortBinding per list element. The host port arrives as a numeric
//     string; entries that fail integer parsing or fall outside 1-65535 are
//     dropped binding-by-binding. A blank host IP defaults to 0.0.0.0.
//  3. Accumulate emitted host ports into a set, and include a
//     ContainerRecord only if its binding list ended up non-empty.
//  4. Sort the used-port set ascending before returning.
//
// Containers keep the snapshot's enumeration order. Within a container,
// binding-table keys are visited in sorted order — the runtime hands the
// table back as an unordered map, and sorting makes every response
// deterministic.
func Build(containers []model.RawContainer) model.PortInventory {
	usedSet := make(map[int]struct{})
	// Non-nil empty slices so an empty inventory marshals as [] rather
	// than null.
	records := make([]model.ContainerRecord, 0, len(containers))

	for _, rc := range containers {
		bindings := collectBindings(rc.Bindings, usedSet)
		if len(bindings) == 0 {
			// No host-bound ports: the container is omitted entirely,
			// whether its table was absent, empty, or exposed-only.
			continue
		}

		records = append(records, model.ContainerRecord{
			ID:       model.ShortID(rc.ID),
			Name:     model.NormalizeName(rc.Name),
			Image:    rc.Image,
			Status:   rc.Status,
			Bindings: bindings,
		})
	}

	used := make([]int, 0, len(usedSet))
	for p := range usedSet {
		used = append(used, p)
	}
	sort.Ints(used)

	return model.PortInventory{
		UsedPorts:  used,
		Containers: records,
	}
}

// collectBindings flattens one container's binding table into a PortBinding
// list, recording every accepted host port in usedSet as a side effect.
// Table keys are visited in sorted order for reproducible output.
func collectBindings(table model.BindingTable, usedSet map[int]struct{}) []model.PortBinding {
	if len(table) == 0 {
		return nil
	}

	keys := make([]string, 0, len(table))
	for cp := range table {
		keys = append(keys, cp)
	}
	sort.Strings(keys)

	var bindings []model.PortBinding
	for _, cp := range keys {
		if !table.HostBound(cp) {
			// Exposed but unbound (nil or empty host list) — contributes
			// nothing to the inventory.
			continue
		}
		for _, raw := range table[cp] {
			hostPort, err := strconv.Atoi(raw.HostPort)
			if err != nil || hostPort < MinPort || hostPort > MaxPort {
				// Upstream data defect. Skip the binding instead of
				// failing the whole request.
				continue
			}

			hostIP := raw.HostIP
			if hostIP == "" {
				hostIP = model.DefaultHostIP
			}

			bindings = append(bindings, model.PortBinding{
				ContainerPort: cp,
				HostPort:      hostPort,
				HostIP:        hostIP,
			})
			usedSet[hostPort] = struct{}{}
		}
	}
	return bindings
}
