package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/possync/internal/logging"
	"github.com/dmitrijs2005/possync/internal/pos/client"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/products"
)

// CatalogService keeps a local mirror of the upstream product catalog so the
// register can ring up items with no network.
type CatalogService interface {
	// Refresh fetches the upstream catalog and atomically replaces the
	// cached snapshot. On any failure the previous snapshot stays intact;
	// staleness is preferred over emptiness.
	Refresh(ctx context.Context) error

	// Products returns the last cached snapshot, or empty if never fetched.
	Products(ctx context.Context) ([]models.Product, error)
}

type catalogService struct {
	client client.Client
	repo   products.Repository
	log    logging.Logger
}

func NewCatalogService(client client.Client, repo products.Repository, log logging.Logger) CatalogService {
	return &catalogService{client: client, repo: repo, log: log}
}

func (s *catalogService) Refresh(ctx context.Context) error {
	items, err := s.client.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if err := s.repo.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("failed to store catalog snapshot: %w", err)
	}

	s.log.Info(ctx, "catalog refreshed", "products", len(items))
	return nil
}

func (s *catalogService) Products(ctx context.Context) ([]models.Product, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached catalog: %w", err)
	}
	return items, nil
}
