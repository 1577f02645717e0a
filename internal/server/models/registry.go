package models

import "time"

// Object types a registry entry may describe.
const (
	ObjectTypeData        = "data"
	ObjectTypeRights      = "rights"
	ObjectTypeBrightening = "brightening"
)

// ObjectTypes lists the accepted object_type values.
var ObjectTypes = []string{ObjectTypeData, ObjectTypeRights, ObjectTypeBrightening}

// RegistryEntry describes a preserved digital object and the node that
// first registered it. Entries are never hard-deleted.
type RegistryEntry struct {
	// ID is the internal serial id; it fixes insertion order.
	ID int64
	// DpnObjectID is the network-wide UUID of the object.
	DpnObjectID string
	LocalID     string
	// FirstNode is the namespace of the registering node.
	FirstNode        string
	VersionNumber    int
	ObjectType       string
	FixityAlgorithm  string
	FixityValue      string
	BagSize          int64
	CreationDate     time.Time
	LastModifiedDate time.Time
	// Published gates visibility in listings.
	Published bool
}
