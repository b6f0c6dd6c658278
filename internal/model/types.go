// Package model defines the domain types for portscout.
//
// The types fall into two layers:
//
//   - Raw snapshot types (RawContainer, BindingTable, RawBinding) mirror what
//     the container runtime reports, before any cleanup. They are produced by
//     the runtime client and consumed by the inventory builder.
//   - Inventory types (ContainerRecord, PortBinding, PortInventory,
//     PortCheckResult) are the cleaned, queryable view returned to callers.
//
// Everything here is reconstructed from a fresh runtime snapshot on each
// request and discarded after the response is sent.
package model

import (
	"fmt"
	"strings"
)

// shortIDLength is the number of leading characters of a container ID kept
// for display. Docker itself abbreviates the 64-hex-char ID the same way.
const shortIDLength = 12

// DefaultHostIP is the interface address assumed when the runtime reports
// an empty host IP for a binding. Docker publishes on all interfaces by
// default, which it represents as 0.0.0.0.
const DefaultHostIP = "0.0.0.0"

// RawBinding is one host-side binding exactly as the runtime reports it.
// HostPort is a numeric string; HostIP may be empty when the binding covers
// all interfaces.
type RawBinding struct {
	HostIP   string
	HostPort string
}

// BindingTable maps a declared container-port string (e.g. "80/tcp") to its
// host-side bindings. The value doubles as a tagged variant:
//
//	nil or empty slice → the container port is exposed but has no host binding
//	populated slice    → the port is bound to one or more host addresses
//
// A nil BindingTable means the runtime reported no network settings at all.
// Both "unbound" shapes contribute nothing to the inventory.
type BindingTable map[string][]RawBinding

// HostBound reports whether the given container-port entry has at least one
// host-side binding. This is the single place the nil/empty distinction is
// collapsed, so callers cannot forget to handle one of the shapes.
func (t BindingTable) HostBound(containerPort string) bool {
	return len(t[containerPort]) > 0
}

// RawContainer is one container as enumerated by the runtime client,
// paired with its binding table from the same snapshot.
//
// ID is the full runtime identifier; Name is the raw runtime name, which
// Docker prefixes with "/". Status is the runtime's free-text status string
// (e.g. "Up 3 hours"), carried only for display.
type RawContainer struct {
	ID       string
	Name     string
	Image    string
	Status   string
	Bindings BindingTable
}

// PortBinding is one cleaned container-port → host-port mapping.
// Only host-bound ports become PortBindings; exposed-but-unbound entries
// never appear here.
type PortBinding struct {
	// ContainerPort is the declared port string from the runtime,
	// e.g. "5432/tcp". The protocol suffix is not parsed further.
	ContainerPort string `json:"containerPort"`

	// HostPort is the bound port on the host (1-65535).
	HostPort int `json:"hostPort"`

	// HostIP is the bound interface address, defaulted to DefaultHostIP
	// when the runtime reports it blank.
	HostIP string `json:"hostIp"`
}

// String returns a human-readable representation of the binding.
// Format: "hostIp:hostPort → containerPort".
func (b PortBinding) String() string {
	return fmt.Sprintf("%s:%d → %s", b.HostIP, b.HostPort, b.ContainerPort)
}

// ContainerRecord is one container in the inventory view. Records only exist
// for containers with at least one host-bound port.
type ContainerRecord struct {
	// ID is the short display form of the container identifier (12 chars).
	ID string `json:"id"`

	// Name is the container name with the runtime's leading "/" stripped.
	Name string `json:"name"`

	// Image is the image reference string, treated as opaque.
	Image string `json:"image"`

	// Status is the runtime-supplied free-text status, kept as a fallback
	// display string.
	Status string `json:"status"`

	// Bindings holds the container's host-bound ports in the deterministic
	// order produced by the inventory builder.
	Bindings []PortBinding `json:"bindings"`
}

// PortInventory is the aggregated view of all host ports currently bound by
// any container.
//
// Invariant: UsedPorts equals the deduplicated, ascending union of every
// HostPort across Containers[*].Bindings.
type PortInventory struct {
	// UsedPorts is the sorted set of distinct bound host ports.
	UsedPorts []int `json:"usedPorts"`

	// Containers lists only containers with a non-empty binding list,
	// in runtime enumeration order. That order is not stable across calls
	// and callers must not depend on it.
	Containers []ContainerRecord `json:"containers"`
}

// Used reports whether the given host port appears in UsedPorts.
// UsedPorts is small (one entry per published port on the host), so a
// linear scan is fine.
func (inv PortInventory) Used(port int) bool {
	for _, p := range inv.UsedPorts {
		if p == port {
			return true
		}
	}
	return false
}

// PortOwner identifies the container and binding occupying a port.
type PortOwner struct {
	// Container is the owning container's normalized name.
	Container string `json:"container"`

	// ContainerPort is the declared port string of the matching binding.
	ContainerPort string `json:"containerPort"`
}

// PortCheckResult is the answer to a single-port availability query.
type PortCheckResult struct {
	// Port is the host port that was queried.
	Port int `json:"port"`

	// Available is true iff Port does not appear in the inventory.
	Available bool `json:"available"`

	// UsedBy is set only when Available is false. It names the first
	// container in inventory enumeration order whose bindings include Port.
	UsedBy *PortOwner `json:"usedBy,omitempty"`
}

// ShortID truncates a full container identifier to its 12-character display
// form. Identifiers shorter than that are returned unchanged.
func ShortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

// NormalizeName strips the runtime's leading name separator. Docker reports
// container names as "/web"; users know the container as "web".
func NormalizeName(name string) string {
	return strings.TrimPrefix(name, "/")
}
