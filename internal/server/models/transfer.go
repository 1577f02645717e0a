package models

import "time"

// Transfer statuses.
const (
	TransferPending   = "pending"
	TransferAccepted  = "accepted"
	TransferRejected  = "rejected"
	TransferConfirmed = "confirmed"
	TransferFailed    = "failed"
	TransferCancelled = "cancelled"
)

// TransferStatuses lists the accepted status values.
var TransferStatuses = []string{
	TransferPending, TransferAccepted, TransferRejected,
	TransferConfirmed, TransferFailed, TransferCancelled,
}

// Transfer protocols.
const (
	ProtocolHTTPS = "https"
	ProtocolRsync = "rsync"
)

// TransferProtocols lists the accepted protocol values.
var TransferProtocols = []string{ProtocolHTTPS, ProtocolRsync}

// Transfer records one attempt to replicate an object to a node. It is
// visible only to the node it belongs to.
type Transfer struct {
	ID          int64
	EventID     string
	Node        string
	DpnObjectID string
	Status      string
	Protocol    string
	Link        string
	Size        int64
	ExpFixity   string
	Receipt     string
	// Fixity and Valid stay nil until the receiving node reports them.
	Fixity    *bool
	Valid     *bool
	Error     string
	CreatedOn time.Time
	UpdatedOn time.Time
}

// OwnerNode returns the namespace of the owning node.
func (t *Transfer) OwnerNode() string {
	return t.Node
}
