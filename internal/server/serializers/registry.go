package serializers

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/google/uuid"
)

// DefaultFixityAlgorithm is used when a payload names none.
const DefaultFixityAlgorithm = "sha256"

// RegistryEntry is the wire form of models.RegistryEntry.
type RegistryEntry struct {
	DpnObjectID      string    `json:"dpn_object_id"`
	LocalID          string    `json:"local_id"`
	FirstNode        string    `json:"first_node"`
	VersionNumber    int       `json:"version_number"`
	ObjectType       string    `json:"object_type"`
	FixityAlgorithm  string    `json:"fixity_algorithm"`
	FixityValue      string    `json:"fixity_value"`
	BagSize          int64     `json:"bag_size"`
	CreationDate     time.Time `json:"creation_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
	Published        bool      `json:"published"`
}

func FromRegistryEntry(e *models.RegistryEntry) RegistryEntry {
	return RegistryEntry{
		DpnObjectID:      e.DpnObjectID,
		LocalID:          e.LocalID,
		FirstNode:        e.FirstNode,
		VersionNumber:    e.VersionNumber,
		ObjectType:       e.ObjectType,
		FixityAlgorithm:  e.FixityAlgorithm,
		FixityValue:      e.FixityValue,
		BagSize:          e.BagSize,
		CreationDate:     e.CreationDate,
		LastModifiedDate: e.LastModifiedDate,
		Published:        e.Published,
	}
}

// RegistryEntryInput is a create payload. Pointer fields tell missing keys
// apart from zero values.
type RegistryEntryInput struct {
	DpnObjectID      *string `json:"dpn_object_id"`
	LocalID          *string `json:"local_id"`
	FirstNode        *string `json:"first_node"`
	VersionNumber    *int    `json:"version_number"`
	ObjectType       *string `json:"object_type"`
	FixityAlgorithm  *string `json:"fixity_algorithm"`
	FixityValue      *string `json:"fixity_value"`
	BagSize          *int64  `json:"bag_size"`
	CreationDate     *string `json:"creation_date"`
	LastModifiedDate *string `json:"last_modified_date"`
	Published        *bool   `json:"published"`
}

// Entry validates the payload and builds the entity it describes.
func (in RegistryEntryInput) Entry() (*models.RegistryEntry, error) {
	verr := common.NewValidationError()

	e := &models.RegistryEntry{
		DpnObjectID:     requireString(verr, "dpn_object_id", in.DpnObjectID),
		LocalID:         stringOr(in.LocalID, ""),
		FirstNode:       requireString(verr, "first_node", in.FirstNode),
		VersionNumber:   1,
		ObjectType:      requireString(verr, "object_type", in.ObjectType),
		FixityAlgorithm: stringOr(in.FixityAlgorithm, DefaultFixityAlgorithm),
		FixityValue:     requireString(verr, "fixity_value", in.FixityValue),
	}

	if e.DpnObjectID != "" {
		id, err := uuid.Parse(e.DpnObjectID)
		if err != nil {
			verr.Add("dpn_object_id", MsgUUID)
		} else {
			e.DpnObjectID = id.String()
		}
	}
	if e.ObjectType != "" && !slices.Contains(models.ObjectTypes, e.ObjectType) {
		verr.Add("object_type", fmt.Sprintf("%q is not a valid choice.", e.ObjectType))
	}
	if e.FixityAlgorithm == "" {
		verr.Add("fixity_algorithm", MsgRequired)
	}
	if in.VersionNumber != nil {
		e.VersionNumber = *in.VersionNumber
		if e.VersionNumber < 1 {
			verr.Add("version_number", "Ensure this value is greater than or equal to 1.")
		}
	}
	if in.BagSize != nil {
		e.BagSize = *in.BagSize
		if e.BagSize < 0 {
			verr.Add("bag_size", "Ensure this value is greater than or equal to 0.")
		}
	}
	if in.Published != nil {
		e.Published = *in.Published
	}
	e.CreationDate = dateTime(verr, "creation_date", in.CreationDate, true)
	e.LastModifiedDate = dateTime(verr, "last_modified_date", in.LastModifiedDate, true)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return e, nil
}
