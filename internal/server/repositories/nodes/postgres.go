package nodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

var columns = query.Columns{
	"namespace": "namespace",
}

const selectColumns = `id, namespace, name, api_root, ssh_username, replicate_from, replicate_to, created_on, updated_on`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Node) (*models.Node, error) {
	stmt := `
		INSERT INTO nodes (namespace, name, api_root, ssh_username, replicate_from, replicate_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_on, updated_on
	`
	err := r.db.QueryRowContext(ctx, stmt,
		n.Namespace, n.Name, n.APIRoot, n.SSHUsername, n.ReplicateFrom, n.ReplicateTo,
	).Scan(&n.ID, &n.CreatedOn, &n.UpdatedOn)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByNamespace(ctx context.Context, namespace string) (*models.Node, error) {
	stmt := `SELECT ` + selectColumns + ` FROM nodes WHERE namespace = $1`

	n, err := scanNode(r.db.QueryRowContext(ctx, stmt, namespace))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, n *models.Node) (*models.Node, error) {
	stmt := `
		UPDATE nodes
		SET name = $2, api_root = $3, ssh_username = $4, replicate_from = $5, replicate_to = $6, updated_on = now()
		WHERE namespace = $1
		RETURNING id, created_on, updated_on
	`
	err := r.db.QueryRowContext(ctx, stmt,
		n.Namespace, n.Name, n.APIRoot, n.SSHUsername, n.ReplicateFrom, n.ReplicateTo,
	).Scan(&n.ID, &n.CreatedOn, &n.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context, q query.Query) (query.Result[*models.Node], error) {
	res := query.Result[*models.Node]{Page: q.Page}

	where, args, err := query.Where(q.Conditions, columns, 1)
	if err != nil {
		return res, err
	}
	orderBy, err := query.OrderBy(q.Order, columns, "id")
	if err != nil {
		return res, err
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes `+where, args...).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("failed to count nodes: %w", err)
	}

	limit, limitArgs := query.Limit(q.Page, len(args)+1)
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM nodes `+where+` `+orderBy+` `+limit, append(args, limitArgs...)...)
	if err != nil {
		return res, fmt.Errorf("failed to select nodes: %w", err)
	}
	defer rows.Close()

	res.Items = []*models.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, n)
	}
	if err := rows.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner) (*models.Node, error) {
	n := &models.Node{}
	if err := s.Scan(&n.ID, &n.Namespace, &n.Name, &n.APIRoot, &n.SSHUsername,
		&n.ReplicateFrom, &n.ReplicateTo, &n.CreatedOn, &n.UpdatedOn); err != nil {
		return nil, err
	}
	return n, nil
}
