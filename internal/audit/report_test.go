package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(offset time.Duration, action Action, adminID, targetID, productID string) Entry {
	params := testParams()
	params.Actor.ID = adminID
	params.Target.ID = targetID
	params.Product.ID = productID
	entry := NewEntry(action, params, Details{}, testNow.Add(offset))
	return entry
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		entryAt(0, ActionApprove, "admin-1", "user-1", "prod-1"),
		entryAt(time.Hour, ActionDecline, "admin-2", "user-2", "prod-1"),
		entryAt(2*time.Hour, ActionRenew, "admin-1", "user-2", "prod-2"),
	}

	t.Run("empty filters return input unchanged", func(t *testing.T) {
		got := Filter(entries, Filters{})
		require.Len(t, got, 3)
		for i := range entries {
			assert.Equal(t, entries[i].ID, got[i].ID, "order must be preserved")
		}
	})

	t.Run("criteria are AND-ed", func(t *testing.T) {
		got := Filter(entries, Filters{
			AdministratorIDs: []string{"admin-1"},
			ProductIDs:       []string{"prod-2"},
		})
		require.Len(t, got, 1)
		assert.Equal(t, ActionRenew, got[0].Action)
	})

	t.Run("list criteria are OR within the field", func(t *testing.T) {
		got := Filter(entries, Filters{Actions: []Action{ActionApprove, ActionDecline}})
		assert.Len(t, got, 2)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		got := Filter(entries, Filters{DateRange: &DateRange{
			From: testNow,
			To:   testNow.Add(time.Hour),
		}})
		assert.Len(t, got, 2)
	})
}

func TestSort(t *testing.T) {
	entries := []Entry{
		entryAt(0, ActionApprove, "a", "u", "p"),
		entryAt(2*time.Hour, ActionRenew, "a", "u", "p"),
		entryAt(time.Hour, ActionDecline, "a", "u", "p"),
	}

	desc := Sort(entries, "desc")
	require.Len(t, desc, 3)
	assert.Equal(t, ActionRenew, desc[0].Action)
	assert.Equal(t, ActionApprove, desc[2].Action)

	asc := Sort(entries, "asc")
	assert.Equal(t, ActionApprove, asc[0].Action)

	// The input is untouched.
	assert.Equal(t, ActionApprove, entries[0].Action)
}

func TestSummarize(t *testing.T) {
	t.Run("totals add up and actions zero-fill", func(t *testing.T) {
		entries := []Entry{
			entryAt(0, ActionApprove, "admin-1", "u", "p"),
			entryAt(time.Hour, ActionApprove, "admin-1", "u", "p"),
			entryAt(2*time.Hour, ActionForceRevoke, "admin-2", "u", "p"),
		}

		summary := Summarize(entries, testNow)

		assert.Equal(t, 3, summary.TotalEntries)
		require.Len(t, summary.ActionCounts, len(AllActions()), "all seven actions present")
		assert.Equal(t, 2, summary.ActionCounts[ActionApprove])
		assert.Equal(t, 0, summary.ActionCounts[ActionDecline])

		total := 0
		for _, count := range summary.ActionCounts {
			total += count
		}
		assert.Equal(t, len(entries), total)

		assert.Equal(t, 2, summary.AdministratorCounts["Ada Admin (ada@example.com)"])
		assert.Equal(t, 3, summary.ProductCounts["Customer Data"])
		assert.Equal(t, testNow, summary.DateRange.From)
		assert.Equal(t, testNow.Add(2*time.Hour), summary.DateRange.To)
	})

	t.Run("empty list collapses date range to now", func(t *testing.T) {
		summary := Summarize(nil, testNow)
		assert.Equal(t, 0, summary.TotalEntries)
		assert.Equal(t, testNow, summary.DateRange.From)
		assert.Equal(t, testNow, summary.DateRange.To)
	})
}

func TestCreateReport(t *testing.T) {
	entries := []Entry{
		entryAt(0, ActionApprove, "admin-1", "u", "p"),
		entryAt(time.Hour, ActionDecline, "admin-2", "u", "p"),
	}

	t.Run("defaults and observed range", func(t *testing.T) {
		report := CreateReport(entries, Filters{}, "ada@example.com", "", "", testNow)
		assert.Equal(t, "Audit Report", report.Title)
		assert.Equal(t, "json", report.ExportFormat)
		assert.NotEmpty(t, report.ID)
		require.Len(t, report.Entries, 2)
		assert.Equal(t, ActionDecline, report.Entries[0].Action, "report entries sort newest first")
		assert.Equal(t, testNow, report.DateRange.From)
	})

	t.Run("explicit filter range wins", func(t *testing.T) {
		explicit := DateRange{From: testNow.Add(-24 * time.Hour), To: testNow.Add(24 * time.Hour)}
		report := CreateReport(entries, Filters{DateRange: &explicit}, "ada@example.com", "Weekly", "csv", testNow)
		assert.Equal(t, explicit, report.DateRange)
		assert.Equal(t, "Weekly", report.Title)
	})
}

func TestExportCSV(t *testing.T) {
	params := testParams()
	entry := NewDeclineEntry(params, `said "no"`, "", nil, testNow)
	report := CreateReport([]Entry{entry}, Filters{}, "ada@example.com", "", "csv", testNow)

	csv := ExportCSV(report)
	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		`"Timestamp","Administrator","Administrator Email","Action","Target User","Target User Email","Product Name","Details","IP Address","User Agent"`,
		lines[0])

	assert.True(t, strings.HasPrefix(lines[1], `"`))
	assert.True(t, strings.HasSuffix(lines[1], `"`))
	assert.Contains(t, lines[1], `"decline"`)
	assert.Contains(t, lines[1], `said ""no""`, "embedded quotes are doubled")

	// Ten columns: splitting on the quote-comma-quote seam yields ten cells.
	cells := strings.Split(lines[1], `","`)
	assert.Len(t, cells, 10)
}

func TestFormatForDisplay(t *testing.T) {
	params := testParams()
	params.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	entry := NewForceRevocationEntry(params, "security incident", testNow.Add(24*time.Hour), nil, testNow)

	display := FormatForDisplay(entry)

	assert.Equal(t, "Force Revoke", display.Action)
	assert.Equal(t, "Ada Admin (ada@example.com)", display.Administrator)
	assert.Equal(t, "John Doe (john@example.com)", display.Target)
	assert.Equal(t, "Customer Data", display.Product)
	assert.Contains(t, display.Description, "Immediately revoked Customer Data access for John Doe")
	assert.Contains(t, display.Description, "security incident")
	assert.Contains(t, display.Client, "Chrome")
	assert.Contains(t, display.Client, "10.0.0.9")
}

func TestStoreAppendOnly(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, entryAt(time.Duration(i)*time.Minute, ActionApprove, "a", "u", "p")))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	require.NoError(t, store.Clear(ctx))
	entries, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
