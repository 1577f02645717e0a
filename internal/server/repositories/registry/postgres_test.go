package registry

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var entryColumns = []string{
	"id", "dpn_object_id", "local_id", "namespace", "version_number", "object_type",
	"fixity_algorithm", "fixity_value", "bag_size", "creation_date", "last_modified_date", "published",
}

var (
	created  = time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)
	modified = time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
)

func sampleEntry() *models.RegistryEntry {
	return &models.RegistryEntry{
		DpnObjectID:      "a395e0b1-2c54-4a1f-8a4d-0a0a1e6b1b8c",
		LocalID:          "bag-0001",
		FirstNode:        "aptrust",
		VersionNumber:    1,
		ObjectType:       models.ObjectTypeData,
		FixityAlgorithm:  "sha256",
		FixityValue:      "ab12",
		BagSize:          1024,
		CreationDate:     created,
		LastModifiedDate: modified,
		Published:        true,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)INSERT INTO registry_entries .*\(SELECT id FROM nodes WHERE namespace = \$3\).*RETURNING id`
	e := sampleEntry()

	mock.ExpectQuery(q).
		WithArgs(e.DpnObjectID, e.LocalID, e.FirstNode, e.VersionNumber, e.ObjectType,
			e.FixityAlgorithm, e.FixityValue, e.BagSize, e.CreationDate, e.LastModifiedDate, e.Published).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("want id 7, got %d", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_TranslatesConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate id", err: &pgconn.PgError{Code: "23505"}, want: common.ErrorAlreadyExists},
		{name: "unknown node", err: &pgconn.PgError{Code: "23502"}, want: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO registry_entries`).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), sampleEntry())
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO registry_entries`).WillReturnError(errors.New("db is down"))

	_, err := repo.Create(context.Background(), sampleEntry())
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByObjectID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	e := sampleEntry()
	mock.ExpectQuery(`(?s)SELECT r\.id, .* FROM registry_entries r\s+JOIN nodes n ON n\.id = r\.first_node_id\s+WHERE r\.dpn_object_id = \$1`).
		WithArgs(e.DpnObjectID).
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(
			int64(3), e.DpnObjectID, e.LocalID, e.FirstNode, 1, e.ObjectType,
			e.FixityAlgorithm, e.FixityValue, e.BagSize, created, modified, false,
		))

	got, err := repo.GetByObjectID(context.Background(), e.DpnObjectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 3 || got.FirstNode != "aptrust" || got.Published || !got.LastModifiedDate.Equal(modified) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGetByObjectID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM registry_entries`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByObjectID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestList_BuildsFilteredPagedQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	after := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	q := query.Query{
		Conditions: []query.Condition{
			query.Eq(FieldPublished, true),
			{Field: FieldLastModifiedDate, Comparator: query.GreaterThan, Value: after},
			query.Eq(FieldFirstNode, "aptrust"),
		},
		Page: query.Page{Number: 2, Size: 20},
	}

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM registry_entries r JOIN nodes n ON n\.id = r\.first_node_id WHERE r\.published = \$1 AND r\.last_modified_date > \$2 AND n\.namespace = \$3`).
		WithArgs(true, after, "aptrust").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	e := sampleEntry()
	mock.ExpectQuery(`(?s)SELECT r\.id, .* WHERE r\.published = \$1 AND r\.last_modified_date > \$2 AND n\.namespace = \$3 ORDER BY r\.id ASC LIMIT \$4 OFFSET \$5`).
		WithArgs(true, after, "aptrust", 20, 20).
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(
			int64(21), e.DpnObjectID, e.LocalID, e.FirstNode, 1, e.ObjectType,
			e.FixityAlgorithm, e.FixityValue, e.BagSize, created, modified, true,
		))

	res, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 21 || len(res.Items) != 1 || res.Items[0].ID != 21 {
		t.Fatalf("unexpected result: total=%d items=%d", res.Total, len(res.Items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT r\.id`).WillReturnRows(sqlmock.NewRows(entryColumns))

	res, err := repo.List(context.Background(), query.Query{Page: query.Page{Number: 1, Size: 20}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("want empty non-nil items, got %#v", res.Items)
	}
}

func TestList_RejectsUnknownField(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.List(context.Background(), query.Query{Conditions: []query.Condition{query.Eq("secret", "x")}})
	if err == nil {
		t.Fatal("expected error for unmapped field")
	}
}

func TestList_CountError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("db err"))

	_, err := repo.List(context.Background(), query.Query{Page: query.Page{Number: 1, Size: 20}})
	if err == nil || !regexp.MustCompile(`failed to count registry entries: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped count error, got %v", err)
	}
}
