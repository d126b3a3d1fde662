package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/internal/notification"
)

func TestCatalogShape(t *testing.T) {
	all := All()
	require.Len(t, all, 10)

	ids := make(map[string]struct{}, len(all))
	for _, tmpl := range all {
		_, duplicate := ids[tmpl.ID]
		require.False(t, duplicate, "duplicate template id %s", tmpl.ID)
		ids[tmpl.ID] = struct{}{}
	}

	assert.Len(t, ByCategory(CategoryExpiration), 3)
	assert.Len(t, ByCategory(CategoryRevocation), 3)
	assert.Len(t, ByCategory(CategoryRenewal), 1)
	assert.Len(t, ByCategory(CategoryAdministrative), 3)
	assert.Len(t, ByType(TypeAccessRevoked), 3)
	assert.NotEmpty(t, ByUrgency(UrgencyCritical))
	assert.Nil(t, ByID("no-such-template"))
}

func TestExpirationTemplateFor(t *testing.T) {
	tests := []struct {
		daysUntil int
		wantID    string
	}{
		{daysUntil: 45, wantID: "expiration-30-day"},
		{daysUntil: 30, wantID: "expiration-30-day"},
		{daysUntil: 29, wantID: "expiration-7-day"},
		{daysUntil: 7, wantID: "expiration-7-day"},
		{daysUntil: 6, wantID: "expiration-1-day"},
		{daysUntil: 1, wantID: "expiration-1-day"},
		{daysUntil: 0, wantID: ""},
		{daysUntil: -3, wantID: ""},
	}

	for _, tt := range tests {
		got := ExpirationTemplateFor(tt.daysUntil)
		if tt.wantID == "" {
			assert.Nil(t, got, "daysUntil=%d", tt.daysUntil)
			continue
		}
		require.NotNil(t, got, "daysUntil=%d", tt.daysUntil)
		assert.Equal(t, tt.wantID, got.ID, "daysUntil=%d", tt.daysUntil)
	}
}

func TestRevocationTemplateFor(t *testing.T) {
	require.Equal(t, "revocation-30-day", RevocationTemplateFor(30).ID)
	require.Equal(t, "revocation-7-day", RevocationTemplateFor(29).ID)
	require.Equal(t, "revocation-1-day", RevocationTemplateFor(1).ID)
	assert.Nil(t, RevocationTemplateFor(0))
}

func TestForceRevocationTemplateFor(t *testing.T) {
	assert.Equal(t, "revoked-policy-violation", ForceRevocationTemplateFor("policy_violation").ID)
	assert.Equal(t, "revoked-security-incident", ForceRevocationTemplateFor("security_incident").ID)
	assert.Equal(t, "revoked-administrative", ForceRevocationTemplateFor("anything else").ID)
}

func TestPopulate(t *testing.T) {
	tmpl := ByID("expiration-7-day")
	require.NotNil(t, tmpl)

	t.Run("substitutes declared variables", func(t *testing.T) {
		_, message := Populate(*tmpl, map[string]string{
			"productName":    "Customer Data",
			"expirationDate": "March 8, 2026",
		})
		assert.Equal(t, "Your access to Customer Data expires on March 8, 2026. Renew now to keep your access.", message)
	})

	t.Run("unresolved placeholder remains literal", func(t *testing.T) {
		_, message := Populate(*tmpl, map[string]string{"productName": "Customer Data"})
		assert.Contains(t, message, "{expirationDate}")
	})

	t.Run("undeclared variables are ignored", func(t *testing.T) {
		_, message := Populate(*tmpl, map[string]string{
			"productName":    "Customer Data",
			"expirationDate": "March 8, 2026",
			"revocationDate": "should not appear",
		})
		assert.NotContains(t, message, "should not appear")
	})
}

func TestProcessBatch(t *testing.T) {
	target := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	valid := BatchRequest{
		UserID:          "user-1",
		UserName:        "Jane Smith",
		UserEmail:       "jane@example.com",
		ProductID:       "prod-1",
		ProductName:     "Customer Data",
		Type:            notification.TypeExpirationReminder,
		DaysUntilTarget: 7,
		TargetDate:      target,
	}

	t.Run("renders the matching tier", func(t *testing.T) {
		rendered, err := ProcessBatch([]BatchRequest{valid})
		require.NoError(t, err)
		require.Len(t, rendered, 1)
		assert.Equal(t, "Access Expiring in 7 Days", rendered[0].Title)
		assert.Equal(t, "Your access to Customer Data expires on March 8, 2026. Renew now to keep your access.", rendered[0].Message)
		assert.Equal(t, UrgencyMedium, rendered[0].UrgencyLevel)
		assert.Equal(t, TypeExpirationReminder, rendered[0].Type)
	})

	t.Run("revocation types share the revocation tiers", func(t *testing.T) {
		req := valid
		req.Type = notification.TypeRevocationReminder
		req.DaysUntilTarget = 1
		rendered, err := ProcessBatch([]BatchRequest{req})
		require.NoError(t, err)
		assert.Equal(t, "Access Revocation Tomorrow", rendered[0].Title)
	})

	t.Run("fails fast when no tier matches", func(t *testing.T) {
		req := valid
		req.DaysUntilTarget = 0
		_, err := ProcessBatch([]BatchRequest{req})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no template tier")
	})

	t.Run("fails fast on unsupported type", func(t *testing.T) {
		req := valid
		req.Type = notification.Type("renewal_confirmation")
		_, err := ProcessBatch([]BatchRequest{req})
		require.Error(t, err)
	})
}
