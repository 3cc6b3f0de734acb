package dto

import "braindump_backend/internal/models"

// DumpItem is one structured thought extracted by the classifier.
// The wire names match the categorization contract exactly.
type DumpItem struct {
	Category    string   `json:"category"`
	RefinedText string   `json:"refinedText"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ProcessResult is the categorization gateway response envelope.
type ProcessResult struct {
	Items []DumpItem `json:"items"`
}

type CreateDumpRequest struct {
	Text string `json:"text" binding:"required" validate:"required,notblank,max=10000"`
}

type UpdateDumpTextRequest struct {
	Text string `json:"text" binding:"required" validate:"required,notblank,max=10000"`
}

type ToggleCompleteRequest struct {
	Completed *bool `json:"completed" binding:"required" validate:"required"`
}

// CreateDumpResponse returns both the classifier's view and the rows
// actually persisted (with server-assigned ids and timestamps).
type CreateDumpResponse struct {
	Items []DumpItem         `json:"items"`
	Dumps []models.BrainDump `json:"dumps"`
}

type ListDumpsResponse struct {
	Dumps []models.BrainDump `json:"dumps"`
	Total int                `json:"total"`
}
