package domain

// SpedFinality indicates whether a SPED Fiscal file is an original
// submission or replaces a previously transmitted one.
type SpedFinality string

const (
	SpedOriginal     SpedFinality = "ORIGINAL"
	SpedSubstitution SpedFinality = "SUBSTITUTION"
)

// SpedRequest identifies one SPED Fiscal generation: one organization and
// one closed reference month.
type SpedRequest struct {
	OrganizationID string       `json:"organizationID"`
	ReferenceMonth int          `json:"referenceMonth"` // 1-12
	ReferenceYear  int          `json:"referenceYear"`
	Finality       SpedFinality `json:"finality"`
}
