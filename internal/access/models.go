package access

import (
	"time"

	dErrors "datacatalog/pkg/domain-errors"
)

// Level is the permission tier a grant confers on a data product.
type Level string

const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelAdmin Level = "admin"
)

// IsValid checks if the level is one of the supported enum values.
func (l Level) IsValid() bool {
	switch l {
	case LevelRead, LevelWrite, LevelAdmin:
		return true
	}
	return false
}

// GrantStatus tracks where a grant sits in its lifecycle.
type GrantStatus string

const (
	StatusActive                 GrantStatus = "active"
	StatusExpiringSoon           GrantStatus = "expiring_soon"
	StatusScheduledForRevocation GrantStatus = "scheduled_for_revocation"
	StatusRevoked                GrantStatus = "revoked"
)

// IsValid checks if the status is one of the supported enum values.
func (s GrantStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusScheduledForRevocation, StatusRevoked:
		return true
	}
	return false
}

// Grant is a currently-held permission on a data product.
type Grant struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	UserName    string      `json:"userName"`
	UserEmail   string      `json:"userEmail"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	GrantedAt   time.Time   `json:"grantedAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	GrantedBy   string      `json:"grantedBy"`
	AccessLevel Level       `json:"accessLevel"`
	Status      GrantStatus `json:"status"`

	// RevocationScheduledAt is set while Status is scheduled_for_revocation.
	RevocationScheduledAt      *time.Time `json:"revocationScheduledAt,omitempty"`
	RevocationNotificationSent bool       `json:"revocationNotificationSent"`
}

// Validate enforces grant invariants before a grant enters the store.
func (g Grant) Validate() error {
	if g.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "grant id is required")
	}
	if !g.AccessLevel.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid access level")
	}
	if !g.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid grant status")
	}
	if !g.ExpiresAt.After(g.GrantedAt) {
		return dErrors.New(dErrors.CodeInvalidInput, "grant must expire after it was granted")
	}
	return nil
}

// DaysUntilExpiration returns whole days remaining, rounding partial days up.
func (g Grant) DaysUntilExpiration(now time.Time) int {
	remaining := g.ExpiresAt.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// RevocationNotice records that a grant has been scheduled for revocation.
// One-to-one with a Grant in scheduled_for_revocation status.
type RevocationNotice struct {
	ID                      string    `json:"id"`
	AccessID                string    `json:"accessId"`
	UserID                  string    `json:"userId"`
	ScheduledRevocationDate time.Time `json:"scheduledRevocationDate"`
	NotificationDate        time.Time `json:"notificationDate"`
	NotificationSent        bool      `json:"notificationSent"`
	RemindersSent           int       `json:"remindersSent"`
	CreatedAt               time.Time `json:"createdAt"`
}

// RequestStatus tracks the state of a pending access request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDeclined RequestStatus = "declined"
)

// Request is a user's pending petition for access to a data product.
// Approval converts it into a Grant; decline closes it with a reason.
type Request struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"userId"`
	UserName              string        `json:"userName"`
	UserEmail             string        `json:"userEmail"`
	ProductID             string        `json:"productId"`
	ProductName           string        `json:"productName"`
	AccessLevel           Level         `json:"accessLevel"`
	BusinessJustification string        `json:"businessJustification"`
	BDAC                  string        `json:"bdac"`
	Priority              string        `json:"priority"`
	RequestedAt           time.Time     `json:"requestedAt"`
	Status                RequestStatus `json:"status"`
}

// DaysWaiting returns whole days since the request was filed.
func (r Request) DaysWaiting(now time.Time) int {
	if now.Before(r.RequestedAt) {
		return 0
	}
	return int(now.Sub(r.RequestedAt) / (24 * time.Hour))
}
