// Package port implements the port inventory core for portscout.
//
// Three pieces make up the core:
//
//   - Build turns a raw container snapshot into a PortInventory: the set of
//     bound host ports plus a per-container binding list.
//   - Check answers whether a single host port is free, attributing occupied
//     ports to the first owning container in enumeration order.
//   - RandomFree samples an unused port in a range by bounded rejection
//     sampling.
//
// Service ties the three to a Snapshotter (the runtime client collaborator).
// Every request rebuilds its inventory from a fresh snapshot; there is no
// caching and no shared mutable state between requests.
package port
