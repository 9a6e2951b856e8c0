package services

import (
	"context"
	"fmt"
	"time"

	"omekan/internal/domain"
)

type adminService struct {
	userRepo       domain.UserRepository
	organizerRepo  domain.OrganizerRepository
	contextTimeout time.Duration
}

func NewAdminService(userRepo domain.UserRepository, organizerRepo domain.OrganizerRepository, timeout time.Duration) domain.AdminService {
	return &adminService{userRepo: userRepo, organizerRepo: organizerRepo, contextTimeout: timeout}
}

func (s *adminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stats, err := s.userRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ListOrganizers(ctx context.Context) ([]domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	orgs, err := s.organizerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	return orgs, nil
}
