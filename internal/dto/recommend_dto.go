package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Outcome classifies what the pipeline did with a request. The HTTP layer
// maps outcomes to status codes; clients branch on the string.
const (
	OutcomeOK                   = "ok"
	OutcomeNoMatches            = "no_matches"
	OutcomeAllSeen              = "all_seen"
	OutcomeBudgetExceeded       = "budget_exceeded"
	OutcomeClassificationFailed = "classification_failed"
)

// ChatTurn is one prior conversation message. Turns the frontend replays
// may embed the product payloads it rendered; those are accepted but never
// forwarded to the reasoning service.
type ChatTurn struct {
	Role     string          `json:"role" validate:"required,oneof=user assistant"`
	Content  string          `json:"content" validate:"required,max=2000"`
	Products json.RawMessage `json:"products,omitempty"`
}

type RecommendRequest struct {
	Query              string     `json:"query" validate:"required,min=2,max=500"`
	ReferenceProductId *uuid.UUID `json:"reference_product_id,omitempty"`
	ShownProductIds    []string   `json:"shown_product_ids,omitempty" validate:"max=200,dive,uuid"`
	History            []ChatTurn `json:"history,omitempty" validate:"max=30,dive"`
}

type RecommendedProduct struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Origins      []string  `json:"origins"`
	RoastLevel   string    `json:"roast_level"`
	Processes    []string  `json:"processes"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	TastingNotes []string  `json:"tasting_notes"`
	SellerUrl    string    `json:"seller_url,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

type SuggestedAction struct {
	Label  string `json:"label"`
	Intent string `json:"intent"`
	Icon   string `json:"icon,omitempty"`
}

type RecommendResponse struct {
	Outcome          string               `json:"outcome"`
	Response         string               `json:"response,omitempty"`
	QueryType        string               `json:"query_type,omitempty"`
	Products         []RecommendedProduct `json:"products"`
	SuggestedActions []SuggestedAction    `json:"suggested_actions,omitempty"`
}

type BudgetStatsResponse struct {
	Date          string  `json:"date"`
	Spent         float64 `json:"spent"`
	Ceiling       float64 `json:"ceiling"`
	Remaining     float64 `json:"remaining"`
	Runs          int64   `json:"runs"`
	RemainingRuns int64   `json:"remaining_runs"`
}

type ShowProductResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Origins      []string  `json:"origins"`
	RoastLevel   string    `json:"roast_level"`
	Processes    []string  `json:"processes"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	TastingNotes []string  `json:"tasting_notes"`
	SellerUrl    string    `json:"seller_url,omitempty"`
}
