package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/domain/device"
	"cardwallet/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.TenantModel{},
		&models.CardModel{},
		&models.DeviceRegistrationModel{},
		&models.TenantCertificateModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestCard(t *testing.T, tenantID, email string) *card.Card {
	c, err := card.NewCard(tenantID, email, card.Display{Name: "Test", StampCount: 3})
	require.NoError(t, err)
	return c
}

func TestCardRepository_FindByIdentifierFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	c := createTestCard(t, "tenant-1", "alice@example.com")
	c.UserID = "u-100"
	c.AnonymousID = "anon-200"
	c.FullID = "384756_u-100"
	c.NumericKey = "5629499534213120"
	require.NoError(t, repo.Create(ctx, c))

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, c.ID, found.ID)
		assert.Equal(t, 3, found.Display.StampCount)
	})

	t.Run("find by user id", func(t *testing.T) {
		found, err := repo.FindByUserID(ctx, "u-100")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("find by anonymous id", func(t *testing.T) {
		found, err := repo.FindByAnonymousID(ctx, "anon-200")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("find by full id", func(t *testing.T) {
		found, err := repo.FindByFullID(ctx, "384756_u-100")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("find by numeric key", func(t *testing.T) {
		found, err := repo.FindByNumericKey(ctx, "5629499534213120")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestDeviceRegistrationRepository_UpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRegistrationRepository(db)
	ctx := context.Background()

	first, err := device.NewRegistration("dev-1", "tok1", "alice@example.com", "tenant-1", "pass.type.one")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	stored, err := repo.GetByDeviceID(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	originalCreatedAt := stored.CreatedAt

	time.Sleep(10 * time.Millisecond)

	second, err := device.NewRegistration("dev-1", "tok2", "alice@example.com", "tenant-1", "pass.type.one")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.DeviceRegistrationModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-registration must not create a second row")

	stored, err = repo.GetByDeviceID(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok2", stored.PushToken, "latest token wins")
	assert.Equal(t, originalCreatedAt.Unix(), stored.CreatedAt.Unix(), "created_at preserved")
	assert.True(t, stored.UpdatedAt.After(originalCreatedAt), "updated_at advanced")
}

func TestDeviceRegistrationRepository_FindBySerial(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRegistrationRepository(db)
	ctx := context.Background()

	for _, devID := range []string{"dev-1", "dev-2"} {
		reg, err := device.NewRegistration(devID, "tok", "alice@example.com", "tenant-1", "pass.type.one")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, reg))
	}

	regs, err := repo.FindBySerial(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	regs, err = repo.FindByDeviceAndPassType(ctx, "dev-1", "pass.type.one")
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestTenantCertificateRepository_ClaimFirstAvailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantCertificateRepository(db)
	ctx := context.Background()

	for i, key := range []string{"100001", "100002"} {
		rec, err := certificate.NewRecord(key, i+1, "certs/"+key+"/signer.pem", "certs/"+key+"/key.pem", "certs/shared/root.pem", "pass.type."+key)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rec))
	}

	t.Run("claims lowest rank first", func(t *testing.T) {
		rec, err := repo.ClaimFirstAvailable(ctx, "owner-a")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "100001", rec.TenantKey)
		assert.True(t, rec.Assigned())
	})

	t.Run("next claim gets next record", func(t *testing.T) {
		rec, err := repo.ClaimFirstAvailable(ctx, "owner-b")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "100002", rec.TenantKey)
	})

	t.Run("empty pool returns nil", func(t *testing.T) {
		rec, err := repo.ClaimFirstAvailable(ctx, "owner-c")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("distinct owners hold distinct records", func(t *testing.T) {
		recA, err := repo.GetByOwner(ctx, "owner-a")
		require.NoError(t, err)
		recB, err := repo.GetByOwner(ctx, "owner-b")
		require.NoError(t, err)
		require.NotNil(t, recA)
		require.NotNil(t, recB)
		assert.NotEqual(t, recA.TenantKey, recB.TenantKey)
	})
}

func TestTenantCertificateRepository_ConcurrentClaimsNeverShare(t *testing.T) {
	db := setupTestDB(t)
	// A pooled in-memory sqlite connection is its own database; pin the
	// pool to one connection so every goroutine sees the same data.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewTenantCertificateRepository(db)
	ctx := context.Background()

	const poolSize = 4
	for i := 0; i < poolSize; i++ {
		key := fmt.Sprintf("20000%d", i)
		rec, err := certificate.NewRecord(key, i, "certs/"+key+"/signer.pem", "certs/"+key+"/key.pem", "certs/shared/root.pem", "pass.type."+key)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rec))
	}

	const claimers = 8
	results := make([]*certificate.Record, claimers)
	errs := make([]error, claimers)

	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = repo.ClaimFirstAvailable(ctx, fmt.Sprintf("owner-%d", n))
		}(i)
	}
	wg.Wait()

	claimed := make(map[string]int)
	var winners int
	for i := 0; i < claimers; i++ {
		require.NoError(t, errs[i])
		if results[i] != nil {
			winners++
			claimed[results[i].TenantKey]++
		}
	}

	assert.Equal(t, poolSize, winners)
	for key, count := range claimed {
		assert.Equalf(t, 1, count, "record %s claimed more than once", key)
	}
}
