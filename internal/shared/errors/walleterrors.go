package errors

import "errors"

// Sentinel errors for the pass-serving core. Handlers translate these into
// bare status codes; the device protocol never sees error text.
var (
	// ErrIdentityNotFound is returned when no card matches an incoming
	// identifier after every lookup strategy has been tried.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrCertificateUnresolvable is returned when neither the tenant's own
	// certificate bundle nor the default bundle could be assembled.
	ErrCertificateUnresolvable = errors.New("certificate bundle unresolvable")

	// ErrNoCertificateAvailable is returned when the unassigned certificate
	// pool is empty.
	ErrNoCertificateAvailable = errors.New("no certificate record available")

	// ErrBlobNotFound is returned by the blob store when a path has no object.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrStoreUnavailable wraps transport-level entity store failures so
	// callers can distinguish them from business not-found results.
	ErrStoreUnavailable = errors.New("entity store unavailable")
)

// IsIdentityNotFound reports whether err means no card matched.
func IsIdentityNotFound(err error) bool {
	return errors.Is(err, ErrIdentityNotFound)
}

// IsCertificateUnresolvable reports whether err means bundle resolution
// failed hard, including the default fallback.
func IsCertificateUnresolvable(err error) bool {
	return errors.Is(err, ErrCertificateUnresolvable)
}
