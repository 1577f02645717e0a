package serializers

import (
	"net/url"
	"regexp"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
)

var namespacePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Node is the wire form of models.Node.
type Node struct {
	Namespace     string    `json:"namespace"`
	Name          string    `json:"name"`
	APIRoot       string    `json:"api_root"`
	SSHUsername   string    `json:"ssh_username"`
	ReplicateFrom bool      `json:"replicate_from"`
	ReplicateTo   bool      `json:"replicate_to"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

func FromNode(n *models.Node) Node {
	return Node{
		Namespace:     n.Namespace,
		Name:          n.Name,
		APIRoot:       n.APIRoot,
		SSHUsername:   n.SSHUsername,
		ReplicateFrom: n.ReplicateFrom,
		ReplicateTo:   n.ReplicateTo,
		CreatedOn:     n.CreatedOn,
		UpdatedOn:     n.UpdatedOn,
	}
}

type NodeInput struct {
	Namespace     *string `json:"namespace"`
	Name          *string `json:"name"`
	APIRoot       *string `json:"api_root"`
	SSHUsername   *string `json:"ssh_username"`
	ReplicateFrom *bool   `json:"replicate_from"`
	ReplicateTo   *bool   `json:"replicate_to"`
}

// Node validates a create payload.
func (in NodeInput) Node() (*models.Node, error) {
	verr := common.NewValidationError()

	n := &models.Node{
		Namespace: requireString(verr, "namespace", in.Namespace),
		Name:      requireString(verr, "name", in.Name),
	}
	if n.Namespace != "" && !namespacePattern.MatchString(n.Namespace) {
		verr.Add("namespace", "Use only lowercase letters, digits and underscores.")
	}
	in.applyOptional(verr, n)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return n, nil
}

// Apply validates an update payload against the stored node and returns the
// updated copy. With partial set (PATCH) absent keys keep their stored
// values; otherwise name is required.
func (in NodeInput) Apply(current *models.Node, partial bool) (*models.Node, error) {
	verr := common.NewValidationError()

	n := *current
	if in.Namespace != nil && *in.Namespace != current.Namespace {
		verr.Add("namespace", MsgReadOnly)
	}
	switch {
	case in.Name != nil:
		n.Name = *in.Name
		if n.Name == "" {
			verr.Add("name", MsgRequired)
		}
	case !partial:
		verr.Add("name", MsgRequired)
	}
	in.applyOptional(verr, &n)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (in NodeInput) applyOptional(verr *common.ValidationError, n *models.Node) {
	if in.APIRoot != nil {
		n.APIRoot = *in.APIRoot
		if n.APIRoot != "" && !validURL(n.APIRoot) {
			verr.Add("api_root", MsgURL)
		}
	}
	if in.SSHUsername != nil {
		n.SSHUsername = *in.SSHUsername
	}
	if in.ReplicateFrom != nil {
		n.ReplicateFrom = *in.ReplicateFrom
	}
	if in.ReplicateTo != nil {
		n.ReplicateTo = *in.ReplicateTo
	}
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
