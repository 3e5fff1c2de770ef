package passkit

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"

	"go.mozilla.org/pkcs7"

	"cardwallet/internal/domain/certificate"
)

// PkpassBuilder implements Builder for the Wallet pkpass format: a zip of
// pass.json, a SHA-1 manifest, and a detached PKCS#7 signature over the
// manifest.
type PkpassBuilder struct{}

func NewPkpassBuilder() *PkpassBuilder {
	return &PkpassBuilder{}
}

type passField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

type passJSON struct {
	FormatVersion      int    `json:"formatVersion"`
	PassTypeIdentifier string `json:"passTypeIdentifier"`
	SerialNumber       string `json:"serialNumber"`
	TeamIdentifier     string `json:"teamIdentifier"`
	OrganizationName   string `json:"organizationName"`
	Description        string `json:"description"`
	StoreCard          struct {
		HeaderFields    []passField `json:"headerFields"`
		PrimaryFields   []passField `json:"primaryFields"`
		SecondaryFields []passField `json:"secondaryFields"`
	} `json:"storeCard"`
}

func (b *PkpassBuilder) Build(ctx context.Context, payload Payload, bundle *certificate.Bundle) ([]byte, error) {
	if !bundle.Complete() {
		return nil, fmt.Errorf("certificate bundle is incomplete")
	}

	passData, err := renderPassJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to render pass.json: %w", err)
	}

	manifest, err := renderManifest(map[string][]byte{
		"pass.json": passData,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	signature, err := signManifest(manifest, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to sign manifest: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string][]byte{
		"pass.json":     passData,
		"manifest.json": manifest,
		"signature":     signature,
	} {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

func renderPassJSON(payload Payload) ([]byte, error) {
	p := passJSON{
		FormatVersion:      1,
		PassTypeIdentifier: payload.PassTypeIdentifier,
		SerialNumber:       payload.SerialNumber,
		TeamIdentifier:     payload.TeamIdentifier,
		OrganizationName:   payload.OrganizationName,
		Description:        payload.Description,
	}

	p.StoreCard.HeaderFields = []passField{
		{Key: "balance", Label: "Balance", Value: payload.Balance},
	}
	p.StoreCard.PrimaryFields = []passField{
		{Key: "name", Label: "Member", Value: payload.Name},
	}
	p.StoreCard.SecondaryFields = []passField{
		{Key: "stamps", Label: "Stamps", Value: payload.StampCount},
		{Key: "tier", Label: "Tier", Value: payload.DiscountTier},
	}

	return json.Marshal(p)
}

// renderManifest maps each archive entry to its SHA-1 digest, as the device
// expects.
func renderManifest(entries map[string][]byte) ([]byte, error) {
	digests := make(map[string]string, len(entries))
	for name, data := range entries {
		sum := sha1.Sum(data)
		digests[name] = hex.EncodeToString(sum[:])
	}
	return json.Marshal(digests)
}

func signManifest(manifest []byte, bundle *certificate.Bundle) ([]byte, error) {
	signerCert, err := parseCertificate(bundle.SignerCert)
	if err != nil {
		return nil, fmt.Errorf("invalid signer certificate: %w", err)
	}

	signerKey, err := parsePrivateKey(bundle.SignerKey)
	if err != nil {
		return nil, fmt.Errorf("invalid signer key: %w", err)
	}

	rootCert, err := parseCertificate(bundle.RootCert)
	if err != nil {
		return nil, fmt.Errorf("invalid root certificate: %w", err)
	}

	signed, err := pkcs7.NewSignedData(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to init signed data: %w", err)
	}

	signed.AddCertificate(rootCert)
	if err := signed.AddSigner(signerCert, signerKey, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("failed to add signer: %w", err)
	}

	signed.Detach()
	return signed.Finish()
}

func parseCertificate(pemBytes []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

func parsePrivateKey(pemBytes []byte) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, fmt.Errorf("unsupported private key format")
}
