package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	certapp "cardwallet/internal/application/certificates"
	"cardwallet/internal/application/identity"
	"cardwallet/internal/application/registry"
	walletapp "cardwallet/internal/application/wallet"
	"cardwallet/internal/domain/card"
	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/infrastructure/blob"
	"cardwallet/internal/infrastructure/cache"
	"cardwallet/internal/infrastructure/passkit"
	"cardwallet/internal/infrastructure/persistence/models"
	"cardwallet/internal/infrastructure/repository"
	"cardwallet/internal/interfaces/http/handlers"
	"cardwallet/internal/interfaces/http/routes"
	"cardwallet/internal/shared/config"
	"cardwallet/internal/shared/logger"
)

// walletStack is the full device-facing service wired over in-memory
// backends: SQLite, an in-process Redis and the in-memory blob store.
type walletStack struct {
	engine *gin.Engine
	cards  card.Repository
	certs  certificate.Repository
	blobs  *blob.MemoryStore
}

func newWalletStack(t *testing.T) *walletStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TenantModel{},
		&models.CardModel{},
		&models.DeviceRegistrationModel{},
		&models.TenantCertificateModel{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewLogger()

	cardRepo := repository.NewCardRepository(db)
	deviceRepo := repository.NewDeviceRegistrationRepository(db)
	certRepo := repository.NewTenantCertificateRepository(db)
	blobs := blob.NewMemoryStore()

	walletCfg := &config.WalletConfig{
		AuthToken:        "secret",
		DefaultTenantKey: "original",
		TeamIdentifier:   "TEAM123",
		OrganizationName: "Test Cafe",
	}

	service := walletapp.NewService(
		identity.NewResolver(cardRepo, log),
		registry.NewService(deviceRepo, cache.NewPushTokenStore(client), log),
		certapp.NewService(certRepo, blobs, walletCfg.DefaultTenantKey, log),
		passkit.NewPkpassBuilder(),
		walletCfg,
		log,
	)

	engine := gin.New()
	routes.SetupWalletRoutes(engine, &routes.WalletRouteConfig{
		Handler:   handlers.NewWalletHandler(service, log),
		AuthToken: walletCfg.AuthToken,
		Logger:    log,
	})

	return &walletStack{
		engine: engine,
		cards:  cardRepo,
		certs:  certRepo,
		blobs:  blobs,
	}
}

func (s *walletStack) addCard(t *testing.T, tenantID, email string) *card.Card {
	t.Helper()
	c, err := card.NewCard(tenantID, email, card.Display{Name: "Alice", Balance: 12.5, StampCount: 4})
	require.NoError(t, err)
	require.NoError(t, s.cards.Create(context.Background(), c))
	return c
}

// seedDefaultCertificate installs a usable bundle under the reserved default
// key, blobs included.
func (s *walletStack) seedDefaultCertificate(t *testing.T) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Default Signing"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:         true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	ctx := context.Background()
	require.NoError(t, s.blobs.Upload(ctx, "original/signer.pem", certPEM))
	require.NoError(t, s.blobs.Upload(ctx, "original/key.pem", keyPEM))
	require.NoError(t, s.blobs.Upload(ctx, "shared/root.pem", certPEM))

	record, err := certificate.NewRecord("original", 0, "original/signer.pem", "original/key.pem", "shared/root.pem", "pass.test.loyalty")
	require.NoError(t, err)
	require.NoError(t, s.certs.Create(ctx, record))
}

func TestWalletFlow_RegisterThenPoll(t *testing.T) {
	stack := newWalletStack(t)
	stack.addCard(t, "tenant-1", "alice@example.com")

	body, _ := json.Marshal(gin.H{"pushToken": "tok1"})
	req := httptest.NewRequest(http.MethodPost,
		"/v1/devices/dev1/registrations/passType1/alice@example.com",
		bytes.NewReader(body))
	req.Header.Set("Authorization", "ApplePass secret")
	w := httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/devices/dev1/registrations/passType1", nil)
	w = httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SerialNumbers []string `json:"serialNumbers"`
		LastUpdated   string   `json:"lastUpdated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"alice@example.com"}, resp.SerialNumbers)

	parsed, err := time.Parse(time.RFC3339, resp.LastUpdated)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)

	// Polling past the change reports nothing new. One second past covers
	// the sub-second precision lastUpdated drops.
	req = httptest.NewRequest(http.MethodGet, "/v1/devices/dev1/registrations/passType1", nil)
	req.Header.Set("If-Modified-Since", parsed.Add(time.Second).Format(time.RFC3339))
	w = httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWalletFlow_PassSignedWithDefaultBundle(t *testing.T) {
	stack := newWalletStack(t)
	stack.seedDefaultCertificate(t)
	// The card's tenant has no certificate record of its own.
	stack.addCard(t, "tenant-without-certs", "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/v1/passes/passType1/alice@example.com", nil)
	w := httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.apple.pkpass", w.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["pass.json"])
	assert.True(t, names["manifest.json"])
	assert.True(t, names["signature"])
}

func TestWalletFlow_PassWithoutAnyCertificateIs404(t *testing.T) {
	stack := newWalletStack(t)
	stack.addCard(t, "tenant-1", "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/v1/passes/passType1/alice@example.com", nil)
	w := httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletFlow_UnknownSerialIs404(t *testing.T) {
	stack := newWalletStack(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/passes/passType1/ghost@example.com", nil)
	w := httptest.NewRecorder()
	stack.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
