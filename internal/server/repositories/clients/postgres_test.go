package clients

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"tiredepot/internal/common"
	"tiredepot/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+clients\s*\(id,\s*name,\s*phone,\s*email,\s*notes,\s*discount,\s*barcode\)`

	mock.ExpectExec(q).
		WithArgs("c-1", "Alice", "+100", "alice@example.com", "", 10.0, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Client{ID: "c-1", Name: "Alice", Phone: "+100", Email: "alice@example.com", Discount: 10}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+clients`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Client{ID: "c-1", Name: "Alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("driver failures must match common.ErrStorage, got %v", err)
	}
}

func TestGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+clients\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Get(context.Background(), "c-1")
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("want common.ErrStorage, got %v", err)
	}
	if errors.Is(err, common.ErrNotFound) {
		t.Fatalf("a driver failure is not a missing row: %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+clients\s+SET\s+name\s*=\s*\$2`

	mock.ExpectExec(q).
		WithArgs("c-1", "Alice B", "+100", "alice@example.com", "vip", 15.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Client{ID: "c-1", Name: "Alice B", Phone: "+100", Email: "alice@example.com", Notes: "vip", Discount: 15}
	if err := repo.Update(context.Background(), c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+clients\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Client{ID: "ghost", Name: "Ghost"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+clients\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "c-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+clients`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func clientRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "phone", "email", "notes", "discount", "barcode"})
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name,.*FROM\s+clients\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnRows(clientRows().AddRow("c-1", "Alice", "+100", "alice@example.com", "", 10, "BC-1"))

	got, err := repo.Get(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "Alice" || got.Barcode == nil || *got.Barcode != "BC-1" {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+clients\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByBarcode_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+clients\s+WHERE\s+barcode\s*=\s*\$1`).
		WithArgs("BC-1").
		WillReturnRows(clientRows().AddRow("c-1", "Alice", "", "", "", 0, "BC-1"))

	got, err := repo.GetByBarcode(context.Background(), "BC-1")
	if err != nil {
		t.Fatalf("GetByBarcode error: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestList_NoSearch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+clients\s+ORDER\s+BY\s+name`).
		WillReturnRows(clientRows().
			AddRow("c-1", "Alice", "", "", "", 0, nil).
			AddRow("c-2", "Bob", "", "", "", 5, "BC-2"))

	got, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Bob" {
		t.Fatalf("unexpected clients: %+v", got)
	}
}

func TestList_Search(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+clients\s+WHERE\s+name\s+ILIKE\s+\$1`).
		WithArgs("%ali%").
		WillReturnRows(clientRows().AddRow("c-1", "Alice", "", "", "", 0, nil))

	got, err := repo.List(context.Background(), "ali")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c-1" {
		t.Fatalf("unexpected clients: %+v", got)
	}
}

func TestSetBarcode_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+clients\s+SET\s+barcode\s*=\s*\$2`).
		WithArgs("c-1", strptr("BC-9")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetBarcode(context.Background(), "c-1", strptr("BC-9")); err != nil {
		t.Fatalf("SetBarcode error: %v", err)
	}
}

func TestSetBarcode_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+clients\s+SET\s+barcode\s*=\s*\$2`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.SetBarcode(context.Background(), "c-1", strptr("BC-9"))
	if !errors.Is(err, common.ErrBarcodeTaken) {
		t.Fatalf("want common.ErrBarcodeTaken, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected exists = true")
	}
}
