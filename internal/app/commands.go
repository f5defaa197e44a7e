package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"quivato_reviews/internal/domain"
)

type ReviewCommands struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewReviewCommands(r domain.ReviewRepository, c domain.Cache) *ReviewCommands {
	return &ReviewCommands{repo: r, cache: c}
}

// ValidateNew checks the text fields a new review must carry. The image is not inspected.
func ValidateNew(f domain.ReviewFields) error {
	for _, c := range []struct {
		field string
		v     string
	}{
		{"review", f.Text},
		{"reviewer_name", f.Name},
		{"reviewer_designation", f.Designation},
	} {
		if strings.TrimSpace(c.v) == "" {
			return domain.Invalid(c.field, "is required")
		}
	}
	return nil
}

func (s *ReviewCommands) Create(ctx context.Context, f domain.ReviewFields) (string, error) {
	if err := ValidateNew(f); err != nil {
		return "", err
	}
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return id, nil
}

// Update applies only the fields set in p. A miss is ErrNotFound; nothing is upserted.
func (s *ReviewCommands) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.UpdateResult, error) {
	if p.Empty() {
		return domain.UpdateResult{}, domain.Invalid("data", "no fields to update")
	}
	for _, c := range []struct {
		field string
		v     *string
	}{
		{"review", p.Text},
		{"reviewer_name", p.Name},
		{"reviewer_designation", p.Designation},
	} {
		if c.v != nil && strings.TrimSpace(*c.v) == "" {
			return domain.UpdateResult{}, domain.Invalid(c.field, "must not be empty")
		}
	}
	res, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if res.Matched == 0 {
		return res, domain.ErrNotFound
	}
	s.invalidate(ctx, id)
	return res, nil
}

// Delete reports how many documents were removed; an absent id yields 0 and no error.
func (s *ReviewCommands) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, id)
	return n, nil
}

func (s *ReviewCommands) invalidate(ctx context.Context, ids ...string) {
	keys := []string{listKey}
	for _, id := range ids {
		keys = append(keys, reviewKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
