// Package models defines server-side data models persisted in the database
// and the request principal resolved from an API token.
package models

// Model names used in permission codenames ("view_transfer", "add_node", ...).
const (
	ModelRegistryEntry = "registryentry"
	ModelNode          = "node"
	ModelTransfer      = "transfer"
)
