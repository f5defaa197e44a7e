package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quivato_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	// uuid.Parse also takes upper case, braces and urn: forms
	if err != nil || u.String() != id {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return u.String(), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, f domain.ReviewFields) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		id,
		f.Text,
		f.Name,
		f.Designation,
		valStr(f.Image), // NULL keeps "no photo" distinct from ""
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func buildUpdate(p domain.ReviewPatch) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("review", p.Text)
	add("reviewer_name", p.Name)
	add("reviewer_designation", p.Designation)
	add("reviewer_image", p.Image)
	if len(sets) == 0 {
		return "", nil
	}
	return updateReviewPrefix + strings.Join(sets, ", ") + " WHERE id = ?", args
}

func (r *Repo) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.UpdateResult, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	q, args := buildUpdate(p)
	if q == "" {
		return domain.UpdateResult{}, domain.Invalid("data", "no fields to update")
	}
	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	// Without clientFoundRows, RowsAffected counts changed rows only.
	modified, err := res.RowsAffected()
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if modified > 0 {
		return domain.UpdateResult{Matched: modified, Modified: modified}, nil
	}
	var one int
	switch err := r.db.QueryRowContext(ctx, existsReviewSQL, id).Scan(&one); {
	case errors.Is(err, sql.ErrNoRows):
		return domain.UpdateResult{}, nil
	case err != nil:
		return domain.UpdateResult{}, err
	}
	return domain.UpdateResult{Matched: 1}, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (int64, error) {
	id, err := parseID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface{ Scan(dest ...any) error }

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	var img sql.NullString
	if err := s.Scan(&rv.ID, &rv.Text, &rv.Name, &rv.Designation, &img); err != nil {
		return domain.Review{}, err
	}
	if img.Valid {
		v := img.String
		rv.Image = &v
	}
	return rv, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Review, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.Review{}, err
	}
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}
