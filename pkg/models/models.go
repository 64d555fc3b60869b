package models

import "time"

// SolveRequest is the request for a stake calculation
type SolveRequest struct {
	Mode         string   `json:"mode"`                // symmetric, biased
	Odds1        float64  `json:"odds1"`               // Decimal odds
	Odds2        float64  `json:"odds2"`               // Decimal odds
	American1    *int     `json:"american1,omitempty"` // Used when odds1 is 0
	American2    *int     `json:"american2,omitempty"` // Used when odds2 is 0
	TargetProfit float64  `json:"target_profit"`
	Bias         *float64 `json:"bias,omitempty"` // 0-100, default 50
}

// SolveResponse is the unified response for both modes
type SolveResponse struct {
	Mode               string   `json:"mode"`
	Status             string   `json:"status"` // ok, not_arbitrage, did_not_converge
	Valid              bool     `json:"valid"`
	Converged          bool     `json:"converged"`
	Iterations         int      `json:"iterations"`
	Stake1             float64  `json:"stake1"`
	Stake2             float64  `json:"stake2"`
	TotalStake         float64  `json:"total_stake"`
	Profit1            float64  `json:"profit1"`
	Profit2            float64  `json:"profit2"`
	ROI                float64  `json:"roi"`
	ImpliedProbability float64  `json:"implied_probability"`
	ProfitMarginPct    float64  `json:"profit_margin_pct"`
	Display            Display  `json:"display"`
	Warnings           []string `json:"warnings"`
}

// Display holds the result formatted for a result card
type Display struct {
	Stake1     string `json:"stake1"`
	Stake2     string `json:"stake2"`
	Profit1    string `json:"profit1"`
	Profit2    string `json:"profit2"`
	TotalStake string `json:"total_stake"`
	ROI        string `json:"roi"`
	Confidence string `json:"confidence"` // "odds 1 % / odds 2 %"
}

// ParamUpdate changes some inputs of a live session; nil fields are kept
type ParamUpdate struct {
	Mode         *string  `json:"mode,omitempty"`
	Odds1        *float64 `json:"odds1,omitempty"`
	Odds2        *float64 `json:"odds2,omitempty"`
	TargetProfit *float64 `json:"target_profit,omitempty"`
	Bias         *float64 `json:"bias,omitempty"`
}

// Message types for WebSocket communication
const (
	MessageTypeUpdate = "update"
	MessageTypeResult = "result"
	MessageTypeError  = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string      `json:"type"`
	Payload ParamUpdate `json:"payload"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Params    *SolveRequest  `json:"params,omitempty"`
	Result    *SolveResponse `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
