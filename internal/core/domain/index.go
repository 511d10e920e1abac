package domain

// Index run messages.
const (
	MessageNothingToEmbed = "No new chunks to embed."
	MessageEmbedded       = "Embedded and persisted successfully."
)

// ScanStats counts what a dedup scan saw.
type ScanStats struct {
	// TotalRead is the number of records read from the chunk log.
	TotalRead int `json:"total_read"`

	// Skipped is the number of records whose identity was already known.
	Skipped int `json:"skipped"`

	// NewFound is the number of records with a previously unseen identity.
	NewFound int `json:"new_found"`
}

// IndexStats is the result of one incremental indexing run.
type IndexStats struct {
	ScanStats

	// EmbeddedNow is the number of nodes inserted into the index by this run.
	EmbeddedNow int `json:"embedded_now"`

	// Message summarises the outcome.
	Message string `json:"message"`
}
