package domain

import "time"

// Change-notification topics, one per table clients watch
const (
	TopicCashflow      = "cashflow"
	TopicParties       = "parties"
	TopicMaterials     = "materials"
	TopicBaseCompanies = "base_companies"
	TopicTankers       = "tankers"
	TopicTransactions  = "transactions"
	TopicUsers         = "users"
	TopicSessions      = "sessions"
)

// Change actions
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionRevoked       = "revoked"
)

// ChangeEvent tells subscribers a table changed. Subscribers refetch; the
// event carries no row data.
type ChangeEvent struct {
	Topic  string    `json:"topic"`
	Action string    `json:"action"`
	ID     uint      `json:"id,omitempty"`
	Actor  string    `json:"actor,omitempty"`
	At     time.Time `json:"at"`
}

// Identity is what the OAuth provider tells us about the signed-in account
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
