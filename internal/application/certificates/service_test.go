package certificates

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

type mockRecordRepository struct {
	getByKeyFunc            func(ctx context.Context, tenantKey string) (*certificate.Record, error)
	getByOwnerFunc          func(ctx context.Context, ownerID string) (*certificate.Record, error)
	claimFirstAvailableFunc func(ctx context.Context, ownerID string) (*certificate.Record, error)
}

func (m *mockRecordRepository) Create(ctx context.Context, r *certificate.Record) error { return nil }

func (m *mockRecordRepository) GetByKey(ctx context.Context, tenantKey string) (*certificate.Record, error) {
	if m.getByKeyFunc != nil {
		return m.getByKeyFunc(ctx, tenantKey)
	}
	return nil, nil
}

func (m *mockRecordRepository) GetByOwner(ctx context.Context, ownerID string) (*certificate.Record, error) {
	if m.getByOwnerFunc != nil {
		return m.getByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockRecordRepository) ClaimFirstAvailable(ctx context.Context, ownerID string) (*certificate.Record, error) {
	if m.claimFirstAvailableFunc != nil {
		return m.claimFirstAvailableFunc(ctx, ownerID)
	}
	return nil, nil
}

type mockBlobStore struct {
	objects map[string][]byte
}

func (m *mockBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.objects[path]
	if !ok {
		return nil, errors.ErrBlobNotFound
	}
	return data, nil
}

func (m *mockBlobStore) Upload(ctx context.Context, path string, data []byte) error {
	m.objects[path] = data
	return nil
}

func (m *mockBlobStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.objects[path]
	return ok, nil
}

func completeRecord(tenantKey string) *certificate.Record {
	return &certificate.Record{
		TenantKey:          tenantKey,
		SignerCertPath:     tenantKey + "/signer.pem",
		SignerKeyPath:      tenantKey + "/key.pem",
		RootCertPath:       "shared/root.pem",
		PassTypeIdentifier: "pass.test." + tenantKey,
	}
}

func storeFor(records ...*certificate.Record) *mockBlobStore {
	store := &mockBlobStore{objects: map[string][]byte{}}
	for _, r := range records {
		store.objects[r.SignerCertPath] = []byte("cert-" + r.TenantKey)
		store.objects[r.SignerKeyPath] = []byte("key-" + r.TenantKey)
		store.objects[r.RootCertPath] = []byte("root")
	}
	return store
}

func TestService_ResolveTenantBundle(t *testing.T) {
	record := completeRecord("cafe42")
	repo := &mockRecordRepository{
		getByOwnerFunc: func(ctx context.Context, ownerID string) (*certificate.Record, error) {
			assert.Equal(t, "tenant-1", ownerID)
			return record, nil
		},
	}

	svc := NewService(repo, storeFor(record), "original", logger.NewLogger())

	res, err := svc.Resolve(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, certificate.SourceTenant, res.Source)
	assert.Equal(t, "cafe42", res.TenantKey)
	assert.Equal(t, []byte("cert-cafe42"), res.Bundle.SignerCert)
	assert.Equal(t, []byte("key-cafe42"), res.Bundle.SignerKey)
	assert.Equal(t, []byte("root"), res.Bundle.RootCert)
}

func TestService_ResolveFallsBackToDefault(t *testing.T) {
	defaultRecord := completeRecord("original")
	repo := &mockRecordRepository{
		getByKeyFunc: func(ctx context.Context, tenantKey string) (*certificate.Record, error) {
			assert.Equal(t, "original", tenantKey)
			return defaultRecord, nil
		},
	}

	svc := NewService(repo, storeFor(defaultRecord), "original", logger.NewLogger())

	res, err := svc.Resolve(context.Background(), "tenant-without-record")
	require.NoError(t, err)
	assert.Equal(t, certificate.SourceDefault, res.Source)
	assert.Equal(t, "original", res.TenantKey)
	assert.True(t, res.Bundle.Complete())
}

func TestService_ResolveFallsBackWhenBlobMissing(t *testing.T) {
	tenantRecord := completeRecord("cafe42")
	defaultRecord := completeRecord("original")
	repo := &mockRecordRepository{
		getByOwnerFunc: func(ctx context.Context, ownerID string) (*certificate.Record, error) {
			return tenantRecord, nil
		},
		getByKeyFunc: func(ctx context.Context, tenantKey string) (*certificate.Record, error) {
			return defaultRecord, nil
		},
	}

	// Only the default record's blobs exist.
	svc := NewService(repo, storeFor(defaultRecord), "original", logger.NewLogger())

	res, err := svc.Resolve(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, certificate.SourceDefault, res.Source)
}

func TestService_ResolveFailsHardWhenDefaultUnusable(t *testing.T) {
	defaultRecord := completeRecord("original")
	repo := &mockRecordRepository{
		getByKeyFunc: func(ctx context.Context, tenantKey string) (*certificate.Record, error) {
			return defaultRecord, nil
		},
	}

	// No blobs at all: neither source can assemble a bundle.
	svc := NewService(repo, &mockBlobStore{objects: map[string][]byte{}}, "original", logger.NewLogger())

	_, err := svc.Resolve(context.Background(), "tenant-1")
	assert.True(t, errors.IsCertificateUnresolvable(err))
}

func TestService_ResolveFailsHardWhenDefaultRecordMissing(t *testing.T) {
	svc := NewService(&mockRecordRepository{}, &mockBlobStore{objects: map[string][]byte{}}, "original", logger.NewLogger())

	_, err := svc.Resolve(context.Background(), "tenant-1")
	assert.True(t, errors.IsCertificateUnresolvable(err))
}

func TestService_AssignFirstAvailableIsIdempotent(t *testing.T) {
	owned := completeRecord("cafe42")
	ownerID := "tenant-1"
	owned.OwnerID = &ownerID

	repo := &mockRecordRepository{
		getByOwnerFunc: func(ctx context.Context, id string) (*certificate.Record, error) {
			if id == ownerID {
				return owned, nil
			}
			return nil, nil
		},
		claimFirstAvailableFunc: func(ctx context.Context, id string) (*certificate.Record, error) {
			t.Fatal("claim must not run when the owner already holds a record")
			return nil, nil
		},
	}

	svc := NewService(repo, &mockBlobStore{}, "original", logger.NewLogger())

	got, err := svc.AssignFirstAvailable(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, "cafe42", got.TenantKey)
}

func TestService_AssignFirstAvailableEmptyPool(t *testing.T) {
	svc := NewService(&mockRecordRepository{}, &mockBlobStore{}, "original", logger.NewLogger())

	_, err := svc.AssignFirstAvailable(context.Background(), "tenant-1")
	assert.True(t, stderrors.Is(err, errors.ErrNoCertificateAvailable))
}

func TestService_AssignFirstAvailableClaims(t *testing.T) {
	free := completeRecord("cafe99")
	repo := &mockRecordRepository{
		claimFirstAvailableFunc: func(ctx context.Context, ownerID string) (*certificate.Record, error) {
			claimed := *free
			claimed.OwnerID = &ownerID
			return &claimed, nil
		},
	}

	svc := NewService(repo, &mockBlobStore{}, "original", logger.NewLogger())

	got, err := svc.AssignFirstAvailable(context.Background(), "tenant-2")
	require.NoError(t, err)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "tenant-2", *got.OwnerID)
}
