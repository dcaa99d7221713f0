package model

import "time"

// ImportError records one rejected row from a batch import.
type ImportError struct {
	Message string `json:"message"`
	Row     int    `json:"row"`
}

// ImportResult reports the outcome of a catalog import. Invariant:
// ImportedRows + len(Errors) == TotalRows.
type ImportResult struct {
	ProcessedAt  time.Time     `json:"processed_at"`
	Products     []Product     `json:"products"`
	Errors       []ImportError `json:"errors"`
	TotalRows    int           `json:"total_rows"`
	ImportedRows int           `json:"imported_rows"`
	Success      bool          `json:"success"`
}
