package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type parentRepository interface {
	ListParents(ctx context.Context) ([]models.User, error)
}

// ParentService exposes parent accounts to administrators.
type ParentService struct {
	repo   parentRepository
	logger *zap.Logger
}

// NewParentService constructs a ParentService.
func NewParentService(repo parentRepository, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{repo: repo, logger: logger}
}

// List returns every parent with their children.
func (s *ParentService) List(ctx context.Context) ([]models.User, error) {
	parents, err := s.repo.ListParents(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list parents")
	}
	if parents == nil {
		parents = []models.User{}
	}
	return parents, nil
}
