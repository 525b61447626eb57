package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/auth"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresStore{db: db}, mock
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "role", "is_active", "created_at", "last_login"}
}

func TestPostgresStore_FindByEmail(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "Alice", "alice@example.com", "hash", "user", true, created, nil))

	u, err := store.FindByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, auth.RoleUser, u.Role)
	assert.Equal(t, "hash", u.PasswordHash, "FindByEmail includes the hash")
	assert.Nil(t, u.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID_StripsPassword(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "Alice", "alice@example.com", "hash", "admin", true, time.Now(), time.Now()))

	u, err := store.FindByID(context.Background(), "u-1", false)
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, auth.RoleAdmin, u.Role)
	assert.NotNil(t, u.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := store.FindByID(context.Background(), "ghost", false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_DuplicateEmail(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Create(context.Background(), newTestUser("Alice", "alice@example.com", auth.RoleUser))
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_AssignsIDAndTimestamp(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := newTestUser("Alice", "Alice@Example.com", auth.RoleUser)
	require.NoError(t, store.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_NotFound(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	u := newTestUser("Ghost", "ghost@example.com", auth.RoleUser)
	u.ID = "no-such-id"
	assert.ErrorIs(t, store.Save(context.Background(), u), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), "u-1"))
	assert.ErrorIs(t, store.Delete(context.Background(), "u-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT (.+) FROM users\s+ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "Alice", "alice@example.com", "hash", "user", true, time.Now(), nil).
			AddRow("u-2", "Bob", "bob@example.com", "hash", "user", true, time.Now(), nil))

	list, total, err := store.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_Search(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE name ILIKE \$1 OR email ILIKE \$1`).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE name ILIKE \$1 OR email ILIKE \$1 ORDER BY name ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("%ali%", 10, 0).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "Alice", "alice@example.com", "hash", "user", true, time.Now(), nil))

	list, total, err := store.List(context.Background(), ListOptions{Search: "ali", SortBy: "name", SortOrder: SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
