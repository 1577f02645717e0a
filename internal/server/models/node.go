package models

import "time"

// Node is a participant in the preservation network.
type Node struct {
	ID int64
	// Namespace is the unique, immutable node identifier.
	Namespace     string
	Name          string
	APIRoot       string
	SSHUsername   string
	ReplicateFrom bool
	ReplicateTo   bool
	CreatedOn     time.Time
	UpdatedOn     time.Time
}
