package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modelNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func validGrant() Grant {
	return Grant{
		ID:          "acc-1",
		UserID:      "user-1",
		GrantedAt:   modelNow.Add(-24 * time.Hour),
		ExpiresAt:   modelNow.Add(30 * 24 * time.Hour),
		AccessLevel: LevelRead,
		Status:      StatusActive,
	}
}

func TestGrantValidate(t *testing.T) {
	t.Run("valid grant passes", func(t *testing.T) {
		require.NoError(t, validGrant().Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		g := validGrant()
		g.ID = ""
		assert.Error(t, g.Validate())
	})

	t.Run("unknown access level", func(t *testing.T) {
		g := validGrant()
		g.AccessLevel = "superuser"
		assert.Error(t, g.Validate())
	})

	t.Run("expiration before grant date", func(t *testing.T) {
		g := validGrant()
		g.ExpiresAt = g.GrantedAt.Add(-time.Hour)
		assert.Error(t, g.Validate())
	})
}

func TestDaysUntilExpiration(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn time.Duration
		want      int
	}{
		{"exact whole days", 7 * 24 * time.Hour, 7},
		{"partial day rounds up", 7*24*time.Hour + time.Hour, 8},
		{"under one day rounds up", 6 * time.Hour, 1},
		{"already expired", -2 * 24 * time.Hour, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGrant()
			g.ExpiresAt = modelNow.Add(tt.expiresIn)
			assert.Equal(t, tt.want, g.DaysUntilExpiration(modelNow))
		})
	}
}

func TestDaysWaiting(t *testing.T) {
	r := Request{RequestedAt: modelNow.Add(-72 * time.Hour)}
	assert.Equal(t, 3, r.DaysWaiting(modelNow))

	future := Request{RequestedAt: modelNow.Add(time.Hour)}
	assert.Equal(t, 0, future.DaysWaiting(modelNow))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, LevelWrite.IsValid())
	assert.False(t, Level("root").IsValid())
	assert.True(t, StatusScheduledForRevocation.IsValid())
	assert.False(t, GrantStatus("paused").IsValid())
}
