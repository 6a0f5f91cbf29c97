package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlassist/pkg/suggest"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Store{db: db}, mock
}

func fieldRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"name", "type", "is_primary_key", "is_nullable", "length"})
	for _, n := range names {
		rows.AddRow(n, "Text", false, true, 0)
	}
	return rows
}

func TestFieldsForTable(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT f.name").
		WithArgs("Customers").
		WillReturnRows(fieldRows("CustomerID", "Name"))

	fields, err := s.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "Customers",
		QualifiedName: "Customers",
	})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "CustomerID", fields[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldsForTableQualifiedFallback(t *testing.T) {
	s, mock := mockStore(t)

	// The qualified name misses, the bare name hits.
	mock.ExpectQuery("SELECT f.name").
		WithArgs("ENT.Subscribers").
		WillReturnRows(fieldRows())
	mock.ExpectQuery("SELECT f.name").
		WithArgs("Subscribers").
		WillReturnRows(fieldRows("SubscriberKey"))

	fields, err := s.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "Subscribers",
		QualifiedName: "ENT.Subscribers",
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "SubscriberKey", fields[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldsForTableUnknown(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT f.name").
		WithArgs("Nope").
		WillReturnRows(fieldRows())

	fields, err := s.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "Nope",
		QualifiedName: "Nope",
	})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestFieldsForTableNotOpened(t *testing.T) {
	s := NewStore()
	_, err := s.FieldsForTable(context.Background(), tableref.TableReference{Name: "X", QualifiedName: "X"})
	assert.Error(t, err)
}

func TestUpsertTable(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tables").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id FROM tables").
		WithArgs("Customers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("DELETE FROM fields").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO fields").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.UpsertTable(context.Background(), "Customers", []suggest.Field{
		{Name: "CustomerID", Type: "Number", IsPrimaryKey: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(map[string][]suggest.Field{
		"Customers":       {{Name: "CustomerID"}},
		"ENT.Subscribers": {{Name: "SubscriberKey"}},
	})

	fields, err := p.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "customers",
		QualifiedName: "customers",
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "CustomerID", fields[0].Name)

	fields, err = p.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "Subscribers",
		QualifiedName: "ENT.Subscribers",
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)

	fields, err = p.FieldsForTable(context.Background(), tableref.TableReference{
		Name:          "Unknown",
		QualifiedName: "Unknown",
	})
	require.NoError(t, err)
	assert.Empty(t, fields)
}
