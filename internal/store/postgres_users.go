package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sebbyk/airwaves/internal/models"
)

// --- users ---

func (p *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := p.db.QueryRow(ctx,
		`SELECT id, email, given_name, family_name, is_admin, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.GivenName, &u.FamilyName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO users (id, email, given_name, family_name, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		u.ID, u.Email, u.GivenName, u.FamilyName, u.IsAdmin)
	if err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, email, given_name, family_name, is_admin, created_at, updated_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.GivenName, &u.FamilyName,
			&u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ListUsers scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) SetUserAdmin(ctx context.Context, id string, isAdmin bool) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2`, isAdmin, id)
	if err != nil {
		return fmt.Errorf("SetUserAdmin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- feedback ---

func (p *Postgres) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO feedback (user_id, tma_name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		f.UserID, f.TMAName, f.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateFeedback: %w", err)
	}
	return id, nil
}

func (p *Postgres) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	var f models.Feedback
	err := p.db.QueryRow(ctx,
		`SELECT id, user_id, tma_name, description, status, created_at
		 FROM feedback WHERE id = $1`, id,
	).Scan(&f.ID, &f.UserID, &f.TMAName, &f.Description, &f.Status, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetFeedback: %w", err)
	}
	return &f, nil
}

func (p *Postgres) ListFeedback(ctx context.Context, status *string) ([]models.FeedbackWithUser, error) {
	sql := `SELECT f.id, f.user_id, f.tma_name, f.description, f.status, f.created_at,
	               u.email, u.given_name, u.family_name
	        FROM feedback f
	        JOIN users u ON f.user_id = u.id`
	var args []any
	if status != nil {
		sql += ` WHERE f.status = $1`
		args = append(args, *status)
	}
	sql += ` ORDER BY f.created_at DESC`

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListFeedback: %w", err)
	}
	defer rows.Close()

	var items []models.FeedbackWithUser
	for rows.Next() {
		var f models.FeedbackWithUser
		if err := rows.Scan(&f.ID, &f.UserID, &f.TMAName, &f.Description, &f.Status,
			&f.CreatedAt, &f.UserEmail, &f.UserGivenName, &f.UserFamilyName); err != nil {
			return nil, fmt.Errorf("ListFeedback scan: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (p *Postgres) ListFeedbackByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, user_id, tma_name, description, status, created_at
		 FROM feedback WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListFeedbackByUser: %w", err)
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.TMAName, &f.Description, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListFeedbackByUser scan: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (p *Postgres) UpdateFeedbackStatus(ctx context.Context, id int64, status string) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE feedback SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("UpdateFeedbackStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
