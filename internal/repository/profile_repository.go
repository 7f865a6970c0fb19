package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/contact-api/internal/models"
)

type ProfileRepository interface {
	FindAdmins(ctx context.Context) ([]models.Profile, error)
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindAdmins returns every profile holding the admin role. The result carries no
// ordering guarantee and may be empty.
func (r *profileRepository) FindAdmins(ctx context.Context) ([]models.Profile, error) {
	const query = `
		SELECT id, email, role
		FROM profiles
		WHERE role = $1`

	rows, err := r.db.QueryContext(ctx, query, string(models.RoleAdmin))
	if err != nil {
		return nil, errors.Wrap(err, "query admin profiles")
	}
	defer rows.Close()

	var admins []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan admin profile")
		}
		admins = append(admins, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query admin profiles")
	}

	return admins, nil
}

func scanProfile(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Profile, error) {
	var (
		profile models.Profile
		email   sql.NullString
		role    string
	)
	if err := scanner.Scan(&profile.ID, &email, &role); err != nil {
		return models.Profile{}, err
	}
	profile.Email = email.String
	profile.Role = models.ParseRole(role)
	return profile, nil
}
