package models

import "time"

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Plan names as stored by the app, in English and Gujarati
const (
	PlanMonthly         = "Monthly"
	PlanYearly          = "Yearly"
	PlanMonthlyGujarati = "માસિક સહયોગ"
	PlanYearlyGujarati  = "વાર્ષિક સહયોગ"
)

// Payment is a donation/subscription payment record
type Payment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserPhone     string    `json:"user_phone"`
	Plan          string    `json:"plan"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
