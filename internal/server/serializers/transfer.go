package serializers

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
)

// Transfer is the wire form of models.Transfer.
type Transfer struct {
	EventID     string    `json:"event_id"`
	Node        string    `json:"node"`
	DpnObjectID string    `json:"dpn_object_id"`
	Status      string    `json:"status"`
	Protocol    string    `json:"protocol"`
	Link        string    `json:"link"`
	Size        int64     `json:"size"`
	ExpFixity   string    `json:"exp_fixity"`
	Receipt     string    `json:"receipt"`
	Fixity      *bool     `json:"fixity"`
	Valid       *bool     `json:"valid"`
	Error       string    `json:"error"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

func FromTransfer(t *models.Transfer) Transfer {
	return Transfer{
		EventID:     t.EventID,
		Node:        t.Node,
		DpnObjectID: t.DpnObjectID,
		Status:      t.Status,
		Protocol:    t.Protocol,
		Link:        t.Link,
		Size:        t.Size,
		ExpFixity:   t.ExpFixity,
		Receipt:     t.Receipt,
		Fixity:      t.Fixity,
		Valid:       t.Valid,
		Error:       t.Error,
		CreatedOn:   t.CreatedOn,
		UpdatedOn:   t.UpdatedOn,
	}
}

// TransferInput is an update payload. Identity and transport fields are
// accepted only when they repeat the stored value.
type TransferInput struct {
	EventID     *string `json:"event_id"`
	Node        *string `json:"node"`
	DpnObjectID *string `json:"dpn_object_id"`
	Protocol    *string `json:"protocol"`
	Link        *string `json:"link"`
	Size        *int64  `json:"size"`
	ExpFixity   *string `json:"exp_fixity"`

	Status  *string  `json:"status"`
	Receipt *string  `json:"receipt"`
	Fixity  NullBool `json:"fixity"`
	Valid   NullBool `json:"valid"`
	Error   *string  `json:"error"`
}

// Apply validates the payload against the stored transfer and returns the
// updated copy. A full update (PUT) must carry status.
func (in TransferInput) Apply(current *models.Transfer, partial bool) (*models.Transfer, error) {
	verr := common.NewValidationError()

	readOnly(verr, "event_id", in.EventID, current.EventID)
	readOnly(verr, "node", in.Node, current.Node)
	readOnly(verr, "dpn_object_id", in.DpnObjectID, current.DpnObjectID)
	readOnly(verr, "protocol", in.Protocol, current.Protocol)
	readOnly(verr, "link", in.Link, current.Link)
	readOnly(verr, "exp_fixity", in.ExpFixity, current.ExpFixity)
	if in.Size != nil && *in.Size != current.Size {
		verr.Add("size", MsgReadOnly)
	}

	t := *current
	switch {
	case in.Status != nil:
		t.Status = *in.Status
		if !slices.Contains(models.TransferStatuses, t.Status) {
			verr.Add("status", fmt.Sprintf("%q is not a valid choice.", t.Status))
		}
	case !partial:
		verr.Add("status", MsgRequired)
	}
	if in.Receipt != nil {
		t.Receipt = *in.Receipt
	}
	if in.Fixity.Set {
		t.Fixity = in.Fixity.Value
	}
	if in.Valid.Set {
		t.Valid = in.Valid.Value
	}
	if in.Error != nil {
		t.Error = *in.Error
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &t, nil
}

func readOnly(verr *common.ValidationError, field string, got *string, stored string) {
	if got != nil && *got != stored {
		verr.Add(field, MsgReadOnly)
	}
}
