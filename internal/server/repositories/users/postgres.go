package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	stmt :=
		`INSERT INTO users (id, username, is_active, is_superuser)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, stmt, user.ID, user.UserName, user.IsActive, user.IsSuperuser)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	stmt :=
		`SELECT id::text, username, is_active, is_superuser FROM users
		 WHERE id::text = $1
		 `
	return r.getOne(ctx, stmt, id)
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	stmt :=
		`SELECT id::text, username, is_active, is_superuser FROM users
		 WHERE username = $1
		 `
	return r.getOne(ctx, stmt, userName)
}

func (r *PostgresRepository) getOne(ctx context.Context, stmt string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, stmt, arg).Scan(&user.ID, &user.UserName, &user.IsActive, &user.IsSuperuser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Permissions(ctx context.Context, userID string) ([]string, error) {
	stmt :=
		`SELECT codename FROM user_permissions
		 WHERE user_id::text = $1
		 ORDER BY codename
		 `

	rows, err := r.db.QueryContext(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	codenames := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codenames = append(codenames, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codenames, nil
}

func (r *PostgresRepository) Grant(ctx context.Context, userID string, codenames ...string) error {
	stmt :=
		`INSERT INTO user_permissions (user_id, codename)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	for _, c := range codenames {
		if _, err := r.db.ExecContext(ctx, stmt, userID, c); err != nil {
			if dbx.IsMissingReference(err) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	stmt :=
		`SELECT p.user_id::text, n.namespace FROM user_profiles p
		 JOIN nodes n ON n.id = p.node_id
		 WHERE p.user_id::text = $1
		 `

	p := &models.UserProfile{}
	if err := r.db.QueryRowContext(ctx, stmt, userID).Scan(&p.UserID, &p.Node); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) SetProfile(ctx context.Context, p *models.UserProfile) error {
	stmt :=
		`INSERT INTO user_profiles (user_id, node_id)
		 VALUES ($1, (SELECT id FROM nodes WHERE namespace = $2))
		 ON CONFLICT (user_id) DO UPDATE SET node_id = EXCLUDED.node_id
		 `

	if _, err := r.db.ExecContext(ctx, stmt, p.UserID, p.Node); err != nil {
		if dbx.IsMissingReference(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
