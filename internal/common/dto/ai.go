package dto

import "github.com/amoylab/lokal/internal/ai"

// LocationQuery is the coordinate pair of a nearby search
type LocationQuery struct {
	Lat  float64 `form:"lat" json:"lat"`
	Lng  float64 `form:"lng" json:"lng"`
	City string  `form:"city" json:"city"`
}

// GeocodeRequest resolves a free-text city
type GeocodeRequest struct {
	Query string `json:"query" binding:"required"`
}

// BusinessPromptRequest names the business an email or deal is written for
type BusinessPromptRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	BusinessType string `json:"businessType"`
}

// PlaceSearchRequest is a grounded place lookup
type PlaceSearchRequest struct {
	Query string  `json:"query" binding:"required"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// AnalyzeDealRequest is the deal to critique
type AnalyzeDealRequest struct {
	ai.DealSummary
}

// AIResponse wraps a gateway result for the client. Outcome tells the UI
// whether Value is real or the degraded fallback.
type AIResponse[T any] struct {
	Value   T          `json:"value"`
	Outcome ai.Outcome `json:"outcome"`
}
