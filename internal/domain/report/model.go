package report

import (
	"strings"

	"gym-insights/backend/internal/domain/analytics"
	"gym-insights/backend/internal/zoezi"
)

// Query identifies one analytics window: a site and an inclusive date range.
type Query struct {
	SiteID    int64  `json:"siteId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (q *Query) Trim() {
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)
}

// SessionListing is the simplified per-session view returned alongside the
// aggregates so the dashboard can re-filter client side. It is not part of
// the aggregation contract.
type SessionListing struct {
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Type        string   `json:"type"`
	Color       string   `json:"color"`
	Booked      int      `json:"booked"`
	Capacity    int      `json:"capacity"`
	Instructors []string `json:"instructors,omitempty"`
}

// Result is the full response payload: echoed query, analytics, enrichment
// lists and the raw session listing.
type Result struct {
	SiteID    int64             `json:"siteId"`
	SiteName  string            `json:"siteName,omitempty"`
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Analytics *analytics.Report `json:"analytics"`
	Sites     []zoezi.Site      `json:"sites"`
	CardTypes []zoezi.CardType  `json:"cardTypes"`
	Sessions  []SessionListing  `json:"sessions"`
}
