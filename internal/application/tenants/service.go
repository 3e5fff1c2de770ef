// Package tenants holds the small amount of tenant lifecycle glue the admin
// surface needs.
package tenants

import (
	"context"
	"fmt"

	"cardwallet/internal/domain/tenant"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

type Service struct {
	tenants tenant.Repository
	logger  logger.Interface
}

func NewService(tenants tenant.Repository, logger logger.Interface) *Service {
	return &Service{
		tenants: tenants,
		logger:  logger,
	}
}

func (s *Service) Create(ctx context.Context, name, passTypeIdentifier string) (*tenant.Tenant, error) {
	t, err := tenant.NewTenant(name, passTypeIdentifier)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.logger.Infow("tenant created", "tenant_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}
	return t, nil
}
