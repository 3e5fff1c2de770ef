package passkit

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwallet/internal/domain/certificate"
)

func testBundle(t *testing.T) *certificate.Bundle {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Pass Signing Test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:         true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	return &certificate.Bundle{
		SignerCert: certPEM,
		SignerKey:  keyPEM,
		RootCert:   certPEM,
	}
}

func TestPkpassBuilderBuild(t *testing.T) {
	builder := NewPkpassBuilder()
	bundle := testBundle(t)

	payload := Payload{
		PassTypeIdentifier: "pass.com.example.loyalty",
		SerialNumber:       "alice@example.com",
		OrganizationName:   "Test Cafe",
		Description:        "Loyalty card",
		Name:               "Alice",
		Balance:            12.5,
		StampCount:         4,
		DiscountTier:       "silver",
	}

	data, err := builder.Build(context.Background(), payload, bundle)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = content
	}

	require.Contains(t, entries, "pass.json")
	require.Contains(t, entries, "manifest.json")
	require.Contains(t, entries, "signature")

	var pass map[string]any
	require.NoError(t, json.Unmarshal(entries["pass.json"], &pass))
	assert.Equal(t, "alice@example.com", pass["serialNumber"])
	assert.Equal(t, "pass.com.example.loyalty", pass["passTypeIdentifier"])

	var manifest map[string]string
	require.NoError(t, json.Unmarshal(entries["manifest.json"], &manifest))
	sum := sha1.Sum(entries["pass.json"])
	assert.Equal(t, hex.EncodeToString(sum[:]), manifest["pass.json"])
}

func TestPkpassBuilderRejectsIncompleteBundle(t *testing.T) {
	builder := NewPkpassBuilder()

	_, err := builder.Build(context.Background(), Payload{}, &certificate.Bundle{
		SignerCert: []byte("cert"),
	})
	assert.Error(t, err)
}
