package memstore

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/nodes"
)

type NodeRepository struct {
	s *Store
}

var _ nodes.Repository = (*NodeRepository)(nil)

func (r *NodeRepository) Create(ctx context.Context, n *models.Node) (*models.Node, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.nodeExists(n.Namespace) {
		return nil, common.ErrorAlreadyExists
	}

	n.ID = r.s.nextID()
	n.CreatedOn = r.s.now()
	n.UpdatedOn = n.CreatedOn
	stored := *n
	r.s.nodes = append(r.s.nodes, &stored)
	return n, nil
}

func (r *NodeRepository) GetByNamespace(ctx context.Context, namespace string) (*models.Node, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, x := range r.s.nodes {
		if x.Namespace == namespace {
			n := *x
			return &n, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *NodeRepository) Update(ctx context.Context, n *models.Node) (*models.Node, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.nodes {
		if x.Namespace != n.Namespace {
			continue
		}
		x.Name = n.Name
		x.APIRoot = n.APIRoot
		x.SSHUsername = n.SSHUsername
		x.ReplicateFrom = n.ReplicateFrom
		x.ReplicateTo = n.ReplicateTo
		x.UpdatedOn = r.s.now()

		out := *x
		return &out, nil
	}
	return nil, common.ErrorNotFound
}

func (r *NodeRepository) List(ctx context.Context, q query.Query) (query.Result[*models.Node], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Node{}
	for _, x := range r.s.nodes {
		if query.Match(q.Conditions, func(f string) any { return nodeField(x, f) }) {
			n := *x
			matched = append(matched, &n)
		}
	}

	return query.Result[*models.Node]{
		Items: query.Paginate(matched, q.Page),
		Total: len(matched),
		Page:  q.Page,
	}, nil
}

func nodeField(n *models.Node, field string) any {
	if field == "namespace" {
		return n.Namespace
	}
	return nil
}
