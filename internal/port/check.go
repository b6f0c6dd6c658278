package port

import (
	"fmt"

	"github.com/mmr-tortoise/portscout/internal/model"
)

const (
	// MinPort is the lowest valid TCP port number.
	MinPort = 1

	// MaxPort is the highest valid TCP/UDP port number (2^16 - 1).
	MaxPort = 65535
)

// ValidatePort checks that a caller-supplied port is within [1, 65535].
// A violation is a validation failure, reported distinctly from inventory
// lookups — callers must run this gate BEFORE any runtime interaction.
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return &model.ValidationError{
			Field:  "port",
			Reason: fmt.Sprintf("%d is outside the valid range %d-%d", port, MinPort, MaxPort),
		}
	}
	return nil
}

// Check reports whether a host port is free in the given inventory.
//
// Containers are scanned in inventory order; for the first container whose
// bindings include the port, the result carries that container's name and
// the matching binding's containerPort string. Two containers sharing a
// host port should not occur in a healthy runtime, but when it does the
// first match in enumeration order wins — a documented tie-break, so the
// behavior stays reproducible.
//
// The port is assumed to have passed ValidatePort.
func Check(inv model.PortInventory, port int) model.PortCheckResult {
	for _, c := range inv.Containers {
		for _, b := range c.Bindings {
			if b.HostPort == port {
				return model.PortCheckResult{
					Port:      port,
					Available: false,
					UsedBy: &model.PortOwner{
						Container:     c.Name,
						ContainerPort: b.ContainerPort,
					},
				}
			}
		}
	}
	return model.PortCheckResult{Port: port, Available: true}
}
