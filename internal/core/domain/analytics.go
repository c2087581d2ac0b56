package domain

import "time"

// ReturnAnalytics summarizes processed returns over a date range.
type ReturnAnalytics struct {
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	TotalReturns   int64            `json:"total_returns"`
	TotalAmount    int64            `json:"total_amount"`
	TotalItems     int64            `json:"total_items"`
	ByReturnType   []AnalyticsGroup `json:"by_return_type"`
	ByReason       []AnalyticsGroup `json:"by_reason"`
	ByRefundMethod []AnalyticsGroup `json:"by_refund_method"`
}

// AnalyticsGroup is one bucket of a grouped aggregate.
type AnalyticsGroup struct {
	Key    string `json:"key"`
	Count  int64  `json:"count"`
	Amount int64  `json:"amount"`
}

// CustomerReturnStats is what the per-customer limit check needs.
type CustomerReturnStats struct {
	Count  int
	Amount int64
}
