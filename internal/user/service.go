package user

import (
	"log/slog"
)

type RepositoryAPI interface {
	GetByID(id int64) (*User, error)
	ListActiveIDs() ([]int64, error)
}

// Service exposes the read-only user directory. Batch report generation uses
// it to enumerate accounts; deactivated accounts are skipped.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetUser(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListActiveUserIDs() ([]int64, error) {
	ids, err := s.repo.ListActiveIDs()
	if err != nil {
		s.logger.Error("failed to list active users", "error", err)
		return nil, err
	}
	return ids, nil
}
