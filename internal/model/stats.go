package model

import "time"

// AIQuery is one logged request made through the assistant surface.
// Only the count is shown on the dashboard.
type AIQuery struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}

// Counts are the per-entity totals on the dashboard.
type Counts struct {
	Snippets   int `json:"snippets"`
	Categories int `json:"categories"`
	Tags       int `json:"tags"`
	AIQueries  int `json:"aiQueries"`
}

// DashboardStats is the payload of GET /api/stats.
type DashboardStats struct {
	Stats          Counts    `json:"stats"`
	RecentSnippets []Snippet `json:"recentSnippets"`
}
