package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"omekan/internal/domain"
)

// Cache keys of the lookup lists.
const (
	communitiesCacheKey = "lookup:communities"
	categoriesCacheKey  = "lookup:categories"
	artistsCacheKey     = "lookup:artists"
)

type lookupService struct {
	communityRepo  domain.CommunityRepository
	categoryRepo   domain.CategoryRepository
	artistRepo     domain.ArtistRepository
	cache          domain.Cache
	cacheTTL       time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewLookupService manages communities, categories and artists. The full
// lists are cached and invalidated on every write.
func NewLookupService(
	communityRepo domain.CommunityRepository,
	categoryRepo domain.CategoryRepository,
	artistRepo domain.ArtistRepository,
	cache domain.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.LookupService {
	return &lookupService{
		communityRepo:  communityRepo,
		categoryRepo:   categoryRepo,
		artistRepo:     artistRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// cachedList serves key from the cache and falls back to load. Cache failures
// are logged and never fail the read.
func cachedList[T any](ctx context.Context, s *lookupService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	err := s.cache.Get(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "cache get failed", "key", key, "err", err)
	}

	out, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
	return out, nil
}

func (s *lookupService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", "keys", keys, "err", err)
	}
}

func (s *lookupService) ListCommunities(ctx context.Context) ([]domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := cachedList(ctx, s, communitiesCacheKey, s.communityRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	return list, nil
}

func (s *lookupService) GetCommunity(ctx context.Context, id int64) (*domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get community: %w", err)
	}
	return c, nil
}

func (s *lookupService) CreateCommunity(ctx context.Context, in domain.CommunityInput) (*domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := communityFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.communityRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}
	s.invalidate(ctx, communitiesCacheKey)
	return c, nil
}

func (s *lookupService) UpdateCommunity(ctx context.Context, id int64, in domain.CommunityInput) (*domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := communityFromInput(in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.communityRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update community: %w", err)
	}
	s.invalidate(ctx, communitiesCacheKey)
	return c, nil
}

func (s *lookupService) DeleteCommunity(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.communityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete community: %w", err)
	}
	s.invalidate(ctx, communitiesCacheKey)
	return nil
}

func communityFromInput(in domain.CommunityInput) (*domain.Community, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c := &domain.Community{
		Name:         in.Name,
		Slug:         lookupSlug(in.Slug, in.Name),
		FlagIcon:     trimPtr(in.FlagIcon),
		PreviewImage: trimPtr(in.PreviewImage),
		IsActive:     true,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if c.Slug == "" {
		return nil, domain.NewValidationError("slug could not be derived from name")
	}
	return c, nil
}

func (s *lookupService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := cachedList(ctx, s, categoriesCacheKey, s.categoryRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (s *lookupService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *lookupService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := categoryFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx, categoriesCacheKey)
	return c, nil
}

func (s *lookupService) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := categoryFromInput(in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx, categoriesCacheKey)
	return c, nil
}

func (s *lookupService) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx, categoriesCacheKey)
	return nil
}

func categoryFromInput(in domain.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c := &domain.Category{Name: in.Name, Slug: lookupSlug(in.Slug, in.Name)}
	if c.Slug == "" {
		return nil, domain.NewValidationError("slug could not be derived from name")
	}
	return c, nil
}

func (s *lookupService) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := cachedList(ctx, s, artistsCacheKey, s.artistRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return list, nil
}

func (s *lookupService) GetArtist(ctx context.Context, id int64) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.artistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return a, nil
}

func (s *lookupService) CreateArtist(ctx context.Context, in domain.ArtistInput) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	a := &domain.Artist{
		Name:        in.Name,
		SpotifyID:   trimPtr(in.SpotifyID),
		ImagePath:   trimPtr(in.ImagePath),
		Description: trimPtr(in.Description),
	}
	if err := s.artistRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	s.invalidate(ctx, artistsCacheKey)
	return a, nil
}

func lookupSlug(requested, name string) string {
	if strings.TrimSpace(requested) != "" {
		return slugify(requested)
	}
	return slugify(name)
}
