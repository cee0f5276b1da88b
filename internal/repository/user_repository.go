package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/venturehub/mentor-scheduling/internal/model"
	"github.com/venturehub/mentor-scheduling/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, name, role, headline string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, role, headline) VALUES (?,?,?,?,?)",
		email, hash, name, role, headline)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,headline,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Headline, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,headline,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Headline, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// MentorSummary is the public directory view of a mentor account.
type MentorSummary struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
}

// ListMentors returns all active mentor accounts for the public
// directory, ordered by name.  Email and password material are never
// exposed through this view.
func (r *UserRepo) ListMentors(ctx context.Context) ([]MentorSummary, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, headline FROM users WHERE role='MENTOR' AND is_active=1 ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	mentors := make([]MentorSummary, 0)
	for rows.Next() {
		var m MentorSummary
		if err := rows.Scan(&m.ID, &m.Name, &m.Headline); err != nil {
			return nil, err
		}
		mentors = append(mentors, m)
	}
	return mentors, rows.Err()
}
