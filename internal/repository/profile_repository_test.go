package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stanstork/contact-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var findAdminsQuery = regexp.QuoteMeta("SELECT id, email, role FROM profiles WHERE role = $1")

func TestFindAdmins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(findAdminsQuery).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow("A1", "ops@example.com", "admin").
			AddRow("A2", nil, "admin"))

	admins, err := NewProfileRepository(db).FindAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, models.Profile{ID: "A1", Email: "ops@example.com", Role: models.RoleAdmin}, admins[0])
	// An admin without an email is still eligible.
	assert.Equal(t, models.Profile{ID: "A2", Role: models.RoleAdmin}, admins[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAdminsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(findAdminsQuery).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}))

	admins, err := NewProfileRepository(db).FindAdmins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestFindAdminsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storeErr := errors.New("connection reset by peer")
	mock.ExpectQuery(findAdminsQuery).WithArgs("admin").WillReturnError(storeErr)

	_, err = NewProfileRepository(db).FindAdmins(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "query admin profiles")
}
