package models

// Requests for decision-core HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Symbol        string  `query:"symbol" json:"symbol" validate:"required"`
	Direction     string  `query:"direction" json:"direction" default:"long" validate:"oneof=long short"`
	Strategy      string  `query:"strategy" json:"strategy"`
	N             int     `query:"n" json:"n" default:"250" validate:"gte=30,lte=5000"`
	TF            string  `query:"tf" json:"tf" default:"1h" validate:"oneof=5m 15m 1h 4h 1d"`
	HighRiskEvent bool    `query:"high_risk_event" json:"high_risk_event"`
	Balance       float64 `query:"balance" json:"balance" validate:"gte=0"`
	Equity        float64 `query:"equity" json:"equity" validate:"gte=0"`
	OpenPositions int     `query:"open_positions" json:"open_positions" validate:"gte=0"`
	DailyPnLPct   float64 `query:"daily_pnl_pct" json:"daily_pnl_pct"`
}

type PlanRequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required"`
	Direction   string  `query:"direction" json:"direction" default:"long" validate:"oneof=long short"`
	Entry       float64 `query:"entry" json:"entry" validate:"required,gt=0"`
	StopLoss    float64 `query:"stop_loss" json:"stop_loss" validate:"required,gt=0"`
	Equity      float64 `query:"equity" json:"equity" validate:"required,gt=0"`
	RewardRatio float64 `query:"reward_ratio" json:"reward_ratio" default:"2.0" validate:"gt=0"`
	KnockOut    bool    `query:"knock_out" json:"knock_out"`
}

type DecisionStatsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Hours  int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=720"`
}

type LevelsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Date   string `query:"date" json:"date"` // YYYY-MM-DD, defaults to today UTC
}

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from" validate:"required"`
	To     string `query:"to" json:"to" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=5m 15m 1h 4h 1d"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=0,lte=50000"`
}

type AlertScanRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"50" validate:"gte=5,lte=1000"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=5m 15m 1h 4h 1d"`
}
