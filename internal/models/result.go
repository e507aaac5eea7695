package models

// Confidence classifies the precision of a single provider answer.
type Confidence int

const (
	// ConfidenceAbsent means the provider returned no usable result
	// (network failure, timeout, empty result set, malformed fields).
	ConfidenceAbsent Confidence = iota
	// ConfidenceApproximate means the provider located an enclosing area
	// rather than the venue itself.
	ConfidenceApproximate
	// ConfidenceExact means the provider located the venue with
	// rooftop-level precision.
	ConfidenceExact
)

// String returns a human-readable name for the confidence tier.
func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceApproximate:
		return "approximate"
	default:
		return "absent"
	}
}

// ProviderResult is the normalized output of a single provider call.
// Coords is nil when Confidence is ConfidenceAbsent.
type ProviderResult struct {
	Coords     *Coordinates // Coordinate in the provider's native reference frame.
	Address    string       // Resolved address text, possibly empty.
	Confidence Confidence   // Precision classification of the result.
}

// ResolutionOutcome is the arbitrator's verdict for one query.
// Point is nil, not zero, when resolution failed; such rows are excluded
// from the placemark artifact but still emitted as empty spreadsheet rows.
// When Point is present, Address comes from the same provider that
// produced the reconciled coordinate.
type ResolutionOutcome struct {
	Address   string       // Resolved address, empty if unresolved.
	DirectURL string       // Maps search deep link, empty if unresolved.
	EmbedURL  string       // Embeddable maps widget URL, empty if unresolved or no key configured.
	Point     *Coordinates // WGS-84 coordinate, nil if unresolved.
}

// Row is one already-identified input record: the two text values the
// pipeline needs. Column identification happens in the spreadsheet layer.
type Row struct {
	City  string
	Venue string
}

// BatchResult is the ordered sequence of outcomes, index-aligned with the
// input rows.
type BatchResult []ResolutionOutcome
