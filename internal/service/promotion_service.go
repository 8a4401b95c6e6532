package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

type PromotionService struct {
	repo repository.PromotionRepository
}

func NewPromotionService(repo repository.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

// Get returns the active promotion at location, or nil when there is none.
func (s *PromotionService) Get(ctx context.Context, location string) (*domain.Promotion, error) {
	if strings.TrimSpace(location) == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.repo.Get(ctx, location)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, nil
	}
	return p, nil
}

// Upsert stores the promotion for location. An active promotion needs a heading.
func (s *PromotionService) Upsert(ctx context.Context, location string, p domain.Promotion) (*domain.Promotion, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrInvalidInput
	}
	if p.Active && strings.TrimSpace(p.Heading) == "" {
		return nil, fmt.Errorf("%w: active promotion needs a heading", ErrInvalidInput)
	}
	p.Location = location
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
