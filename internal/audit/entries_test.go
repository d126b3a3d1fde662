package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/internal/platform/config"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testParams() EntryParams {
	return EntryParams{
		Actor:     Actor{ID: "admin-1", Name: "Ada Admin", Email: "ada@example.com"},
		Target:    Target{ID: "user-1", Name: "John Doe", Email: "john@example.com"},
		Product:   Product{ID: "prod-1", Name: "Customer Data"},
		AccessID:  "access-1",
		RequestID: "req-1",
		IPAddress: "10.0.0.9",
		UserAgent: "Mozilla/5.0",
	}
}

func TestNewEntry(t *testing.T) {
	first := NewEntry(ActionApprove, testParams(), Details{}, testNow)
	second := NewEntry(ActionApprove, testParams(), Details{}, testNow)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "audit ids must be unique, never deterministic")
	assert.Equal(t, testNow, first.Timestamp)
	assert.Equal(t, "Ada Admin", first.AdministratorName)
	assert.Equal(t, "john@example.com", first.TargetUserEmail)
	assert.Equal(t, "10.0.0.9", first.IPAddress)
}

func TestNewApprovalEntry(t *testing.T) {
	entry := NewApprovalEntry(testParams(), "looks good", map[string]any{
		"businessJustification": "quarterly reporting",
		"bdac":                  "finance",
		"priority":              "high",
		"daysWaiting":           3,
	}, testNow)

	assert.Equal(t, ActionApprove, entry.Action)
	assert.Equal(t, "looks good", entry.Details.Comment)
	require.NotNil(t, entry.Details.NewExpirationDate)
	assert.Equal(t, testNow.Add(config.RenewalPeriod), *entry.Details.NewExpirationDate)
	assert.Equal(t, "finance", entry.Details.AdditionalContext["bdac"])
}

func TestNewDeclineEntry(t *testing.T) {
	entry := NewDeclineEntry(testParams(), "insufficient clearance", "decline-standard", nil, testNow)

	assert.Equal(t, ActionDecline, entry.Action)
	assert.Equal(t, "insufficient clearance", entry.Details.Reason)
	assert.Equal(t, "insufficient clearance", entry.Details.Comment)
	assert.Equal(t, "decline-standard", entry.Details.TemplateUsed)
}

func TestNewRenewalEntry(t *testing.T) {
	previous := testNow.Add(10 * 24 * time.Hour)
	entry := NewRenewalEntry(testParams(), previous, map[string]any{"accessLevel": "read"}, testNow)

	assert.Equal(t, ActionRenew, entry.Action)
	require.NotNil(t, entry.Details.PreviousExpirationDate)
	assert.Equal(t, previous, *entry.Details.PreviousExpirationDate)
	require.NotNil(t, entry.Details.NewExpirationDate)
	assert.Equal(t, testNow.Add(config.RenewalPeriod), *entry.Details.NewExpirationDate)
}

func TestNewBulkRenewalEntries(t *testing.T) {
	itemA := BulkRenewalItem{Params: testParams(), PreviousExpiration: testNow.Add(24 * time.Hour)}
	itemB := BulkRenewalItem{Params: testParams(), PreviousExpiration: testNow.Add(48 * time.Hour)}
	itemB.Params.AccessID = "access-2"

	entries := NewBulkRenewalEntries([]BulkRenewalItem{itemA, itemB}, testNow)

	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, ActionBulkRenew, entry.Action)
		assert.Equal(t, 2, entry.Details.BulkOperationCount)
	}
	assert.Equal(t, "access-1", entries[0].AccessID)
	assert.Equal(t, "access-2", entries[1].AccessID)
}

func TestNewScheduledRevocationEntry(t *testing.T) {
	revocationAt := testNow.Add(config.RevocationNoticePeriod)
	previous := testNow.Add(60 * 24 * time.Hour)

	entry := NewScheduledRevocationEntry(testParams(), revocationAt, previous, nil, testNow)

	assert.Equal(t, ActionScheduleRevocation, entry.Action)
	require.NotNil(t, entry.Details.RevocationScheduledDate)
	assert.Equal(t, revocationAt, *entry.Details.RevocationScheduledDate)
	assert.Equal(t, "30 days", entry.Details.AdditionalContext["notificationPeriod"])
}

func TestNewForceRevocationEntry(t *testing.T) {
	previous := testNow.Add(60 * 24 * time.Hour)
	entry := NewForceRevocationEntry(testParams(), "policy_violation", previous, nil, testNow)

	assert.Equal(t, ActionForceRevoke, entry.Action)
	assert.Equal(t, "policy_violation", entry.Details.Reason)
	assert.Equal(t, true, entry.Details.AdditionalContext["immediateRevocation"])
}

func TestValidateEntry(t *testing.T) {
	t.Run("complete entry is valid", func(t *testing.T) {
		entry := NewApprovalEntry(testParams(), "", nil, testNow)
		assert.Empty(t, ValidateEntry(entry))
	})

	t.Run("one message per missing field", func(t *testing.T) {
		params := testParams()
		params.Actor.Email = ""
		params.Target.Name = ""
		params.Product.ID = ""
		entry := NewApprovalEntry(params, "", nil, testNow)

		errs := ValidateEntry(entry)
		require.Len(t, errs, 3)
		assert.Contains(t, errs, "administrator email is required")
		assert.Contains(t, errs, "target user name is required")
		assert.Contains(t, errs, "product id is required")
	})
}
