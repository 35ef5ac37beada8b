package app

import (
	"time"

	"finboard/internal/ai"
	"finboard/internal/core"
)

// UserSession is the authenticated identity handed to the web adapter. It is
// passed explicitly through request handling; there is no process-wide
// session singleton.
type UserSession struct {
	UserID       int                `json:"user_id"`
	CompanyID    int                `json:"company_id"`
	CompanyCode  string             `json:"company_code"`
	Username     string             `json:"username"`
	Role         string             `json:"role"`
	Capabilities core.CapabilitySet `json:"-"`
}

type UserResult struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyCode string `json:"company_code"`
}

// ForecastResult merges the derived snapshot with the AI analysis into the
// report view-model returned to the client.
type ForecastResult struct {
	Snapshot    core.WorkingCapitalSnapshot `json:"snapshot"`
	Analysis    ai.ForecastAnalysis         `json:"analysis"`
	GeneratedAt time.Time                   `json:"generated_at"`
}
