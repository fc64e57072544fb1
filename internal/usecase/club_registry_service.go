package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

// ClubRegistryService is the write/read surface over the club registry.
type ClubRegistryService struct {
	repo     club.Repository
	validate *validator.Validate
}

func NewClubRegistryService(repo club.Repository) *ClubRegistryService {
	return &ClubRegistryService{repo: repo, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Import validates and upserts clubs, stopping at the first invalid entry.
func (s *ClubRegistryService) Import(ctx context.Context, clubs []club.Club) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubRegistryService.Import")
	defer span.End()

	for i, c := range clubs {
		if err := s.validate.StructCtx(ctx, c); err != nil {
			return 0, fmt.Errorf("%w: club #%d (%s): %v", ErrInvalidInput, i, c.ID, err)
		}
		if _, err := c.Location(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	for i, c := range clubs {
		if err := s.repo.Upsert(ctx, c); err != nil {
			return i, fmt.Errorf("upsert club %s: %w", c.ID, err)
		}
	}
	return len(clubs), nil
}

func (s *ClubRegistryService) GetByID(ctx context.Context, id string) (club.Club, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return club.Club{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	c, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club by id: %w", err)
	}
	if !ok {
		return club.Club{}, fmt.Errorf("%w: club id=%s", ErrNotFound, id)
	}
	return c, nil
}

func (s *ClubRegistryService) GetByName(ctx context.Context, name string) (club.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return club.Club{}, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}
	c, ok, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club by name: %w", err)
	}
	if !ok {
		return club.Club{}, fmt.Errorf("%w: club name=%s", ErrNotFound, name)
	}
	return c, nil
}

func (s *ClubRegistryService) List(ctx context.Context) ([]club.Club, error) {
	clubs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}
