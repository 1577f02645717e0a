package transfers

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
	FieldNode:      "n.namespace",
	FieldStatus:    "t.status",
	FieldFixity:    "t.fixity",
	FieldValid:     "t.valid",
	FieldCreatedOn: "t.created_on",
	FieldUpdatedOn: "t.updated_on",
}

const selectColumns = `t.id, t.event_id, n.namespace, t.dpn_object_id, t.status, t.protocol, t.link, t.size,
		t.exp_fixity, t.receipt, t.fixity, t.valid, t.error, t.created_on, t.updated_on`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	stmt := `
		INSERT INTO transfers (event_id, node_id, dpn_object_id, status, protocol, link, size,
			exp_fixity, receipt, fixity, valid, error)
		VALUES ($1, (SELECT id FROM nodes WHERE namespace = $2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_on, updated_on
	`
	err := r.db.QueryRowContext(ctx, stmt,
		t.EventID, t.Node, t.DpnObjectID, t.Status, t.Protocol, t.Link, t.Size,
		t.ExpFixity, t.Receipt, t.Fixity, t.Valid, t.Error,
	).Scan(&t.ID, &t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsMissingReference(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetByEventID(ctx context.Context, eventID string) (*models.Transfer, error) {
	stmt := `SELECT ` + selectColumns + `
		FROM transfers t
		JOIN nodes n ON n.id = t.node_id
		WHERE t.event_id = $1
	`
	t, err := scanTransfer(r.db.QueryRowContext(ctx, stmt, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	stmt := `
		UPDATE transfers
		SET status = $2, receipt = $3, fixity = $4, valid = $5, error = $6, updated_on = now()
		WHERE event_id = $1
		RETURNING updated_on
	`
	err := r.db.QueryRowContext(ctx, stmt,
		t.EventID, t.Status, t.Receipt, t.Fixity, t.Valid, t.Error,
	).Scan(&t.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context, q query.Query) (query.Result[*models.Transfer], error) {
	res := query.Result[*models.Transfer]{Page: q.Page}

	where, args, err := query.Where(q.Conditions, columns, 1)
	if err != nil {
		return res, err
	}
	orderBy, err := query.OrderBy(q.Order, columns, "t.id")
	if err != nil {
		return res, err
	}

	from := `FROM transfers t JOIN nodes n ON n.id = t.node_id ` + where

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+from, args...).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("failed to count transfers: %w", err)
	}

	limit, limitArgs := query.Limit(q.Page, len(args)+1)
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` `+from+` `+orderBy+` `+limit, append(args, limitArgs...)...)
	if err != nil {
		return res, fmt.Errorf("failed to select transfers: %w", err)
	}
	defer rows.Close()

	res.Items = []*models.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, t)
	}
	if err := rows.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(s scanner) (*models.Transfer, error) {
	t := &models.Transfer{}
	var fixity, valid sql.NullBool
	if err := s.Scan(&t.ID, &t.EventID, &t.Node, &t.DpnObjectID, &t.Status, &t.Protocol, &t.Link, &t.Size,
		&t.ExpFixity, &t.Receipt, &fixity, &valid, &t.Error, &t.CreatedOn, &t.UpdatedOn); err != nil {
		return nil, err
	}
	t.Fixity = nullBool(fixity)
	t.Valid = nullBool(valid)
	return t, nil
}

func nullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
