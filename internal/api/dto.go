package api

import (
	"github.com/starford/adrgraph/internal/adrservice"
)

// DocumentSummary is a lightweight item in a list response (aliased from the domain layer).
type DocumentSummary = adrservice.DocumentSummary

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = adrservice.DocumentDetail

// GraphResponse wraps the relationship graph.
type GraphResponse = adrservice.GraphView

// DocumentListResponse wraps document listings.
type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents" validate:"required"`
	Total     int               `json:"total" example:"42" validate:"required"`
}
