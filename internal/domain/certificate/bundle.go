package certificate

// Bundle is the in-memory certificate material assembled for one request or
// trigger invocation. It is never persisted and is discarded after use.
type Bundle struct {
	SignerCert []byte
	SignerKey  []byte
	RootCert   []byte
}

// Complete reports whether all three parts are present. A partial bundle is
// useless: it cannot sign a verifiable pass.
func (b *Bundle) Complete() bool {
	return len(b.SignerCert) > 0 && len(b.SignerKey) > 0 && len(b.RootCert) > 0
}

// Source says where a resolved bundle came from, so callers can log and
// alert on degraded-mode operation.
type Source string

const (
	// SourceTenant means the tenant's own certificate record supplied the bundle.
	SourceTenant Source = "tenant"
	// SourceDefault means resolution fell back to the shared default record.
	SourceDefault Source = "default"
)

// Resolution is the typed result of bundle resolution.
type Resolution struct {
	Bundle             Bundle
	Source             Source
	TenantKey          string
	PassTypeIdentifier string
}
