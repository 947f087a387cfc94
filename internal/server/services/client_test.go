package services

import (
	"context"
	"errors"
	"testing"

	"tiredepot/internal/common"
	"tiredepot/internal/server/models"
)

func TestClientCreate_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	s := NewClientService(db, m, testLogger())

	p := ClientParams{Name: "Alice", Phone: "+100", Email: "alice@example.com", Discount: 10}
	got, err := s.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.Name != "Alice" || got.Discount != 10 {
		t.Fatalf("unexpected client: %+v", got)
	}
	if len(m.c.created) != 1 {
		t.Fatalf("client create calls: %d", len(m.c.created))
	}
}

func TestClientCreate_ValidationErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	s := NewClientService(db, m, testLogger())

	cases := []ClientParams{
		{Name: ""},
		{Name: "Alice", Email: "not-an-email"},
		{Name: "Alice", Discount: 150},
		{Name: "Alice", Discount: -5},
	}
	for i, p := range cases {
		if _, err := s.Create(context.Background(), p); !errors.Is(err, common.ErrValidation) {
			t.Fatalf("case %d: want common.ErrValidation, got %v", i, err)
		}
	}
	if len(m.c.created) != 0 {
		t.Fatalf("no clients should be stored, got %d", len(m.c.created))
	}
}

func TestClientEdit_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := newFakeManager()
	m.c.get = &models.Client{ID: "c-1", Name: "Alice", Discount: 10}
	s := NewClientService(db, m, testLogger())

	got, err := s.Edit(context.Background(), "c-1", ClientParams{Name: "Alice B", Discount: 20})
	if err != nil {
		t.Fatalf("Edit error: %v", err)
	}
	if got.Name != "Alice B" || got.Discount != 20 {
		t.Fatalf("unexpected client: %+v", got)
	}
	if len(m.c.updated) != 1 {
		t.Fatalf("client update calls: %d", len(m.c.updated))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestClientEdit_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	m := newFakeManager()
	m.c.getErr = common.ErrNotFound
	s := NewClientService(db, m, testLogger())

	if _, err := s.Edit(context.Background(), "ghost", ClientParams{Name: "Ghost"}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestClientDelete_CountsCascadedDeposits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := newFakeManager()
	m.d.countByClient = 3
	s := NewClientService(db, m, testLogger())

	if err := s.Delete(context.Background(), "c-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(m.c.deleted) != 1 || m.c.deleted[0] != "c-1" {
		t.Fatalf("unexpected deletes: %+v", m.c.deleted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetByBarcode_RequiresBarcode(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	s := NewClientService(db, m, testLogger())

	if _, err := s.GetByBarcode(context.Background(), ""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want common.ErrValidation, got %v", err)
	}
}

func TestAssignBarcode_SetsAndClears(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	s := NewClientService(db, m, testLogger())

	if err := s.AssignBarcode(context.Background(), "c-1", "BC-9"); err != nil {
		t.Fatalf("AssignBarcode error: %v", err)
	}
	if m.c.setBarcodeID != "c-1" || m.c.setBarcodeValue == nil || *m.c.setBarcodeValue != "BC-9" {
		t.Fatalf("unexpected barcode assignment: %v %v", m.c.setBarcodeID, m.c.setBarcodeValue)
	}

	if err := s.AssignBarcode(context.Background(), "c-1", ""); err != nil {
		t.Fatalf("AssignBarcode error: %v", err)
	}
	if m.c.setBarcodeValue != nil {
		t.Fatalf("empty barcode should clear, got %v", *m.c.setBarcodeValue)
	}
}

func TestAssignBarcode_Taken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	m.c.setBarcodeErr = common.ErrBarcodeTaken
	s := NewClientService(db, m, testLogger())

	if err := s.AssignBarcode(context.Background(), "c-1", "BC-9"); !errors.Is(err, common.ErrBarcodeTaken) {
		t.Fatalf("want common.ErrBarcodeTaken, got %v", err)
	}
}

func TestListDeposits_MissingClient(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	m.c.getErr = common.ErrNotFound
	s := NewClientService(db, m, testLogger())

	if _, err := s.ListDeposits(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestListDeposits_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	m := newFakeManager()
	m.c.get = &models.Client{ID: "c-1", Name: "Alice"}
	m.d.byClient = []*models.Deposit{{ID: "d-1", ClientID: "c-1", Status: models.StatusActive}}
	s := NewClientService(db, m, testLogger())

	got, err := s.ListDeposits(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListDeposits error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "d-1" {
		t.Fatalf("unexpected deposits: %+v", got)
	}
}
