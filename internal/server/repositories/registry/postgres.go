package registry

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
	FieldPublished:        "r.published",
	FieldLastModifiedDate: "r.last_modified_date",
	FieldFirstNode:        "n.namespace",
	FieldObjectType:       "r.object_type",
}

const selectColumns = `r.id, r.dpn_object_id, r.local_id, n.namespace, r.version_number, r.object_type,
		r.fixity_algorithm, r.fixity_value, r.bag_size, r.creation_date, r.last_modified_date, r.published`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.RegistryEntry) (*models.RegistryEntry, error) {
	stmt := `
		INSERT INTO registry_entries (dpn_object_id, local_id, first_node_id, version_number, object_type,
			fixity_algorithm, fixity_value, bag_size, creation_date, last_modified_date, published)
		VALUES ($1, $2, (SELECT id FROM nodes WHERE namespace = $3), $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, stmt,
		e.DpnObjectID, e.LocalID, e.FirstNode, e.VersionNumber, e.ObjectType,
		e.FixityAlgorithm, e.FixityValue, e.BagSize, e.CreationDate, e.LastModifiedDate, e.Published,
	).Scan(&e.ID)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsMissingReference(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetByObjectID(ctx context.Context, dpnObjectID string) (*models.RegistryEntry, error) {
	stmt := `SELECT ` + selectColumns + `
		FROM registry_entries r
		JOIN nodes n ON n.id = r.first_node_id
		WHERE r.dpn_object_id = $1
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, stmt, dpnObjectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, q query.Query) (query.Result[*models.RegistryEntry], error) {
	res := query.Result[*models.RegistryEntry]{Page: q.Page}

	where, args, err := query.Where(q.Conditions, columns, 1)
	if err != nil {
		return res, err
	}
	orderBy, err := query.OrderBy(q.Order, columns, "r.id")
	if err != nil {
		return res, err
	}

	from := `FROM registry_entries r JOIN nodes n ON n.id = r.first_node_id ` + where

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+from, args...).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("failed to count registry entries: %w", err)
	}

	limit, limitArgs := query.Limit(q.Page, len(args)+1)
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` `+from+` `+orderBy+` `+limit, append(args, limitArgs...)...)
	if err != nil {
		return res, fmt.Errorf("failed to select registry entries: %w", err)
	}
	defer rows.Close()

	res.Items = []*models.RegistryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, e)
	}
	if err := rows.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.RegistryEntry, error) {
	e := &models.RegistryEntry{}
	err := s.Scan(&e.ID, &e.DpnObjectID, &e.LocalID, &e.FirstNode, &e.VersionNumber, &e.ObjectType,
		&e.FixityAlgorithm, &e.FixityValue, &e.BagSize, &e.CreationDate, &e.LastModifiedDate, &e.Published)
	if err != nil {
		return nil, err
	}
	return e, nil
}
