package matching

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidMapping = errors.New("remitter pattern and buyer name are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindBuyer(ctx context.Context, remitterName string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, buyerName string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the buyer a remitter is known to pay for, or an empty string when no
// learned pattern matches the name.
func (s *Service) Suggest(ctx context.Context, remitterName string) (string, error) {
	name := normalize(remitterName)
	if name == "" {
		return "", nil
	}

	return s.repo.FindBuyer(ctx, name)
}

// Learn remembers that remitters whose name contains pattern pay for buyer.
func (s *Service) Learn(ctx context.Context, pattern, buyer string) error {
	pattern = normalize(pattern)
	buyer = strings.TrimSpace(buyer)

	if pattern == "" || buyer == "" {
		return ErrInvalidMapping
	}

	return s.repo.CreateMapping(ctx, pattern, buyer)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
