// Package certificates resolves and assigns per-tenant signing material.
package certificates

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/infrastructure/blob"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

// Service resolves certificate bundles with tenant-then-default fallback and
// hands out unclaimed records to new tenants. The default tenant is ordinary
// data: a record under a reserved key, injected through configuration.
type Service struct {
	records          certificate.Repository
	blobs            blob.Store
	defaultTenantKey string
	logger           logger.Interface
}

func NewService(records certificate.Repository, blobs blob.Store, defaultTenantKey string, logger logger.Interface) *Service {
	return &Service{
		records:          records,
		blobs:            blobs,
		defaultTenantKey: defaultTenantKey,
		logger:           logger,
	}
}

// Resolve returns a complete bundle for the tenant, falling back to the
// default tenant's record when the tenant's own record, a path, or a blob is
// missing. When the fallback also fails the operation fails hard with
// ErrCertificateUnresolvable; a partial bundle would sign an unusable pass.
func (s *Service) Resolve(ctx context.Context, tenantID string) (*certificate.Resolution, error) {
	record, err := s.records.GetByOwner(ctx, tenantID)
	if err != nil {
		s.logger.Warnw("tenant certificate record lookup failed, trying default",
			"tenant_id", tenantID,
			"error", err,
		)
		record = nil
	}

	if record != nil && record.Complete() {
		bundle, err := s.downloadBundle(ctx, record)
		if err == nil {
			return &certificate.Resolution{
				Bundle:             *bundle,
				Source:             certificate.SourceTenant,
				TenantKey:          record.TenantKey,
				PassTypeIdentifier: record.PassTypeIdentifier,
			}, nil
		}
		s.logger.Warnw("tenant certificate bundle unusable, trying default",
			"tenant_id", tenantID,
			"tenant_key", record.TenantKey,
			"error", err,
		)
	}

	fallback, err := s.records.GetByKey(ctx, s.defaultTenantKey)
	if err != nil {
		return nil, fmt.Errorf("default certificate record lookup failed: %w", errors.ErrCertificateUnresolvable)
	}
	if fallback == nil || !fallback.Complete() {
		return nil, fmt.Errorf("default certificate record %q missing or incomplete: %w", s.defaultTenantKey, errors.ErrCertificateUnresolvable)
	}

	bundle, err := s.downloadBundle(ctx, fallback)
	if err != nil {
		s.logger.Errorw("default certificate bundle unresolvable",
			"tenant_id", tenantID,
			"tenant_key", fallback.TenantKey,
			"error", err,
		)
		return nil, fmt.Errorf("default certificate bundle download failed: %w", errors.ErrCertificateUnresolvable)
	}

	return &certificate.Resolution{
		Bundle:             *bundle,
		Source:             certificate.SourceDefault,
		TenantKey:          fallback.TenantKey,
		PassTypeIdentifier: fallback.PassTypeIdentifier,
	}, nil
}

// downloadBundle fetches the three blobs in parallel. The parts are
// independent objects, so concurrent reads are safe.
func (s *Service) downloadBundle(ctx context.Context, record *certificate.Record) (*certificate.Bundle, error) {
	var bundle certificate.Bundle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.blobs.Download(gctx, record.SignerCertPath)
		if err != nil {
			return fmt.Errorf("signer cert %s: %w", record.SignerCertPath, err)
		}
		bundle.SignerCert = data
		return nil
	})
	g.Go(func() error {
		data, err := s.blobs.Download(gctx, record.SignerKeyPath)
		if err != nil {
			return fmt.Errorf("signer key %s: %w", record.SignerKeyPath, err)
		}
		bundle.SignerKey = data
		return nil
	})
	g.Go(func() error {
		data, err := s.blobs.Download(gctx, record.RootCertPath)
		if err != nil {
			return fmt.Errorf("root cert %s: %w", record.RootCertPath, err)
		}
		bundle.RootCert = data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !bundle.Complete() {
		return nil, fmt.Errorf("bundle for %s has empty parts", record.TenantKey)
	}

	return &bundle, nil
}

// AssignFirstAvailable claims the lowest-ranked unowned record for ownerID.
// A tenant that already owns a record gets it back unchanged; the claim
// itself is a conditional write, so concurrent claimers never share a
// record. Returns ErrNoCertificateAvailable when the pool is empty.
func (s *Service) AssignFirstAvailable(ctx context.Context, ownerID string) (*certificate.Record, error) {
	existing, err := s.records.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	claimed, err := s.records.ClaimFirstAvailable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim certificate record: %w", err)
	}
	if claimed == nil {
		return nil, errors.ErrNoCertificateAvailable
	}

	s.logger.Infow("certificate record assigned",
		"tenant_key", claimed.TenantKey,
		"owner_id", ownerID,
	)
	return claimed, nil
}
