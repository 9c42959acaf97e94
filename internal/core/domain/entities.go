package domain

import "strings"

// Role represents an approved user's permission tier
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleSupervisor    Role = "Supervisor"
	RoleManagement    Role = "Management"
)

// Roles lists every configured role in display order
func Roles() []Role {
	return []Role{RoleAdministrator, RoleSupervisor, RoleManagement}
}

// ParseRole matches a role name case-insensitively
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// UserStatus is the lifecycle status of an approved user
type UserStatus string

const (
	UserActive         UserStatus = "Active"
	UserInactive       UserStatus = "Inactive"
	UserSuspended      UserStatus = "Suspended"
	UserDecommissioned UserStatus = "Decommissioned"
)

// ParseUserStatus matches a user status case-insensitively
func ParseUserStatus(s string) (UserStatus, bool) {
	for _, st := range []UserStatus{UserActive, UserInactive, UserSuspended, UserDecommissioned} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// CanSignIn reports whether a user with this status may hold a session
func (s UserStatus) CanSignIn() bool {
	return s == UserActive
}

// RecordStatus is the soft-delete status of master data rows
type RecordStatus string

const (
	StatusActive   RecordStatus = "Active"
	StatusInactive RecordStatus = "Inactive"
)

// Toggle flips Active and Inactive. Legacy lower-case "active" counts as Active.
func (s RecordStatus) Toggle() RecordStatus {
	if strings.EqualFold(string(s), string(StatusActive)) {
		return StatusInactive
	}
	return StatusActive
}

// ParseRecordStatus matches a record status case-insensitively
func ParseRecordStatus(s string) (RecordStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive, true
	case "inactive":
		return StatusInactive, true
	}
	return "", false
}

// CashflowType is the direction of a ledger entry
type CashflowType string

const (
	Inflow  CashflowType = "Inflow"
	Outflow CashflowType = "Outflow"
)

// ParseCashflowType matches a cash-flow type case-insensitively
func ParseCashflowType(s string) (CashflowType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inflow":
		return Inflow, true
	case "outflow":
		return Outflow, true
	}
	return "", false
}

// TransactionStatus is the payment status of a priced material transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionPaid      TransactionStatus = "Paid"
	TransactionCancelled TransactionStatus = "Cancelled"
)

// ParseTransactionStatus matches a transaction status case-insensitively
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	for _, st := range []TransactionStatus{TransactionPending, TransactionPaid, TransactionCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Actor identifies who performs a mutation, for audit fields
type Actor struct {
	UserID uint
	Email  string
	Role   Role
}
