package notification

import "time"

// Type discriminates the scheduled notification kinds.
type Type string

const (
	TypeExpirationReminder Type = "expiration_reminder"
	TypeRevocationNotice   Type = "revocation_notice"
	TypeRevocationReminder Type = "revocation_reminder"
)

// IsValid checks if the type is one of the supported enum values.
func (t Type) IsValid() bool {
	switch t {
	case TypeExpirationReminder, TypeRevocationNotice, TypeRevocationReminder:
		return true
	}
	return false
}

// Scheduled is a single future-dated notification instance.
//
// The ID is deterministic, derived from (access ID, type, offset), so
// regenerating the schedule against the same grants never produces duplicate
// entries. Audit entries, by contrast, use random UUIDs: they need uniqueness
// only, never idempotent identity.
type Scheduled struct {
	ID          string `json:"id"`
	AccessID    string `json:"accessId"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Type        Type   `json:"type"`

	// ScheduledDate is the instant the notification becomes due.
	// Invariant: ScheduledDate = TargetDate - DaysBeforeTarget days.
	ScheduledDate time.Time `json:"scheduledDate"`

	// TargetDate is the expiration or revocation instant being warned about.
	TargetDate       time.Time `json:"targetDate"`
	DaysBeforeTarget int       `json:"daysBeforeTarget"`

	Sent      bool       `json:"sent"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}

// SchedulerConfig controls reminder offsets and batch processing.
type SchedulerConfig struct {
	ExpirationReminderDays []int
	RevocationReminderDays []int
	EnableBatchProcessing  bool
	MaxBatchSize           int
}

// DefaultSchedulerConfig returns the governance defaults: expiration
// reminders at 30/7/1 days out, revocation reminders at 7/1 days out.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		ExpirationReminderDays: []int{30, 7, 1},
		RevocationReminderDays: []int{7, 1},
		EnableBatchProcessing:  true,
		MaxBatchSize:           50,
	}
}
