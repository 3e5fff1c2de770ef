package card

import "strings"

// IdentifierKind is the closed set of shapes an incoming identifier can take.
// Classification happens once; lookup strategies dispatch on the kind instead
// of re-probing the raw string at every step.
type IdentifierKind int

const (
	// KindEmail matches the current serial-number scheme.
	KindEmail IdentifierKind = iota
	// KindLegacyComposite is the historical "<tenant>_<user>" form.
	KindLegacyComposite
	// KindNumericKey looks like a datastore-style integer key.
	KindNumericKey
	// KindOpaque is anything else: a user id, anonymous id, or full id.
	KindOpaque
)

func (k IdentifierKind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindLegacyComposite:
		return "legacy_composite"
	case KindNumericKey:
		return "numeric_key"
	default:
		return "opaque"
	}
}

const (
	legacyPrefix       = "ID="
	compositeSeparator = "_"
	// Numeric strings shorter than this are treated as opaque ids, not keys.
	minNumericKeyLen = 6
)

// Identifier is the parsed form of a raw incoming identifier string.
type Identifier struct {
	Kind  IdentifierKind
	Value string
	// Trailing holds the segment after the last separator, when one is
	// present. Empty when the value has no separator or ends with one.
	Trailing string
}

// ClassifyIdentifier normalizes and classifies a raw identifier string.
// Trailing is populated whenever the value contains a separator, email-shaped
// values included: a composite id whose trailing segment is an email
// classifies as email on the full string, and the resolver retries on the
// trailing segment after a miss.
func ClassifyIdentifier(raw string) Identifier {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, legacyPrefix)

	var trailing string
	if idx := strings.LastIndex(value, compositeSeparator); idx >= 0 {
		trailing = value[idx+len(compositeSeparator):]
	}

	switch {
	case strings.Contains(value, "@"):
		return Identifier{Kind: KindEmail, Value: strings.ToLower(value), Trailing: strings.ToLower(trailing)}
	case isNumericKey(value):
		return Identifier{Kind: KindNumericKey, Value: value}
	case trailing != "":
		return Identifier{Kind: KindLegacyComposite, Value: value, Trailing: trailing}
	default:
		return Identifier{Kind: KindOpaque, Value: value}
	}
}

func isNumericKey(s string) bool {
	if len(s) < minNumericKeyLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
