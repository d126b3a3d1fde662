package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
)

// Filter returns the entries satisfying every provided criterion. List
// criteria are membership tests; the date range is inclusive at both bounds.
// An empty Filters value returns the input unchanged, order preserved.
func Filter(entries []Entry, f Filters) []Entry {
	adminSet := toSet(f.AdministratorIDs)
	targetSet := toSet(f.TargetUserIDs)
	productSet := toSet(f.ProductIDs)
	actionSet := make(map[Action]struct{}, len(f.Actions))
	for _, a := range f.Actions {
		actionSet[a] = struct{}{}
	}

	var out []Entry
	for _, e := range entries {
		if len(adminSet) > 0 {
			if _, ok := adminSet[e.AdministratorID]; !ok {
				continue
			}
		}
		if len(targetSet) > 0 {
			if _, ok := targetSet[e.TargetUserID]; !ok {
				continue
			}
		}
		if len(productSet) > 0 {
			if _, ok := productSet[e.ProductID]; !ok {
				continue
			}
		}
		if len(actionSet) > 0 {
			if _, ok := actionSet[e.Action]; !ok {
				continue
			}
		}
		if f.DateRange != nil {
			if e.Timestamp.Before(f.DateRange.From) || e.Timestamp.After(f.DateRange.To) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Sort returns a new list ordered by timestamp. "desc" (the default for any
// unrecognized order) puts the newest entry first. The sort is stable so
// same-instant entries keep their append order.
func Sort(entries []Entry, order string) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	if order == "asc" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	}
	return out
}

// adminKey renders the "Name (email)" key used in administrator counts.
func adminKey(e Entry) string {
	return fmt.Sprintf("%s (%s)", e.AdministratorName, e.AdministratorEmail)
}

// Summarize tallies an entry set. Action counts are zero-filled over all
// seven action kinds. An empty entry list collapses the date range to the
// provided instant for both bounds rather than crashing.
func Summarize(entries []Entry, now time.Time) Summary {
	summary := Summary{
		TotalEntries:        len(entries),
		ActionCounts:        make(map[Action]int, len(AllActions())),
		AdministratorCounts: make(map[string]int),
		ProductCounts:       make(map[string]int),
	}
	for _, action := range AllActions() {
		summary.ActionCounts[action] = 0
	}

	if len(entries) == 0 {
		summary.DateRange = DateRange{From: now, To: now}
		return summary
	}

	earliest, latest := entries[0].Timestamp, entries[0].Timestamp
	for _, e := range entries {
		summary.ActionCounts[e.Action]++
		summary.AdministratorCounts[adminKey(e)]++
		summary.ProductCounts[e.ProductName]++
		if e.Timestamp.Before(earliest) {
			earliest = e.Timestamp
		}
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}
	summary.DateRange = DateRange{From: earliest, To: latest}
	return summary
}

// CreateReport filters, sorts newest-first, summarizes, and wraps the result
// with metadata. The report's date range prefers the filter's explicit range,
// falling back to the summary's observed range.
func CreateReport(entries []Entry, f Filters, generatedBy, title, exportFormat string, now time.Time) Report {
	if title == "" {
		title = "Audit Report"
	}
	if exportFormat == "" {
		exportFormat = "json"
	}

	filtered := Sort(Filter(entries, f), "desc")
	summary := Summarize(filtered, now)

	dateRange := summary.DateRange
	if f.DateRange != nil {
		dateRange = *f.DateRange
	}

	return Report{
		ID:           uuid.NewString(),
		Title:        title,
		GeneratedAt:  now,
		GeneratedBy:  generatedBy,
		DateRange:    dateRange,
		Filters:      f,
		Entries:      filtered,
		Summary:      summary,
		ExportFormat: exportFormat,
	}
}

// csvHeader is the fixed ten-column export header.
var csvHeader = []string{
	"Timestamp",
	"Administrator",
	"Administrator Email",
	"Action",
	"Target User",
	"Target User Email",
	"Product Name",
	"Details",
	"IP Address",
	"User Agent",
}

// ExportCSV renders the report's entries as CSV. Every cell is quote-wrapped
// and embedded double quotes are doubled per RFC 4180. The reference export
// skipped that escaping; fixing it here is a deliberate, documented
// divergence. Details serialize as one compact JSON cell.
func ExportCSV(report Report) string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)

	for _, e := range report.Entries {
		details, err := json.Marshal(e.Details)
		if err != nil {
			details = []byte("{}")
		}
		writeCSVRow(&b, []string{
			e.Timestamp.Format(time.RFC3339),
			e.AdministratorName,
			e.AdministratorEmail,
			string(e.Action),
			e.TargetUserName,
			e.TargetUserEmail,
			e.ProductName,
			string(details),
			e.IPAddress,
			e.UserAgent,
		})
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// DisplayEntry is the human-facing projection of one entry.
type DisplayEntry struct {
	Timestamp     string
	Action        string
	Description   string
	Administrator string
	Target        string
	Product       string
	Client        string
}

// FormatForDisplay renders an entry for the audit trail UI: readable action
// name, an action-specific sentence built from the details, "Name (email)"
// identities, and a humanized client string parsed from the User-Agent.
func FormatForDisplay(e Entry) DisplayEntry {
	return DisplayEntry{
		Timestamp:     e.Timestamp.Format("Jan 2, 2006 3:04:05 PM"),
		Action:        readableAction(e.Action),
		Description:   describe(e),
		Administrator: adminKey(e),
		Target:        fmt.Sprintf("%s (%s)", e.TargetUserName, e.TargetUserEmail),
		Product:       e.ProductName,
		Client:        clientString(e),
	}
}

func readableAction(action Action) string {
	words := strings.Split(string(action), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

const displayDateFormat = "Jan 2, 2006"

func describe(e Entry) string {
	switch e.Action {
	case ActionApprove:
		desc := fmt.Sprintf("Approved access to %s for %s", e.ProductName, e.TargetUserName)
		if e.Details.NewExpirationDate != nil {
			desc += fmt.Sprintf(", expiring %s", e.Details.NewExpirationDate.Format(displayDateFormat))
		}
		return desc
	case ActionDecline:
		desc := fmt.Sprintf("Declined access to %s for %s", e.ProductName, e.TargetUserName)
		if e.Details.Reason != "" {
			desc += fmt.Sprintf(": %s", e.Details.Reason)
		}
		return desc
	case ActionRenew:
		desc := fmt.Sprintf("Renewed access to %s for %s", e.ProductName, e.TargetUserName)
		if e.Details.NewExpirationDate != nil {
			desc += fmt.Sprintf(" until %s", e.Details.NewExpirationDate.Format(displayDateFormat))
		}
		return desc
	case ActionBulkRenew:
		return fmt.Sprintf("Renewed access to %s for %s as part of a bulk renewal of %d grants",
			e.ProductName, e.TargetUserName, e.Details.BulkOperationCount)
	case ActionScheduleRevocation:
		desc := fmt.Sprintf("Scheduled revocation of %s access for %s", e.ProductName, e.TargetUserName)
		if e.Details.RevocationScheduledDate != nil {
			desc += fmt.Sprintf(", effective %s", e.Details.RevocationScheduledDate.Format(displayDateFormat))
		}
		return desc
	case ActionForceRevoke:
		desc := fmt.Sprintf("Immediately revoked %s access for %s", e.ProductName, e.TargetUserName)
		if e.Details.Reason != "" {
			desc += fmt.Sprintf(": %s", e.Details.Reason)
		}
		return desc
	case ActionRevoke:
		return fmt.Sprintf("Revoked %s access for %s", e.ProductName, e.TargetUserName)
	default:
		return fmt.Sprintf("%s on %s for %s", readableAction(e.Action), e.ProductName, e.TargetUserName)
	}
}

// clientString condenses the raw User-Agent into "Browser version on OS",
// appending the IP when recorded.
func clientString(e Entry) string {
	if e.UserAgent == "" && e.IPAddress == "" {
		return ""
	}

	client := e.UserAgent
	if e.UserAgent != "" {
		ua := useragent.New(e.UserAgent)
		name, version := ua.Browser()
		if name != "" {
			client = name
			if version != "" {
				client += " " + version
			}
			if os := ua.OS(); os != "" {
				client += " on " + os
			}
		}
	}

	if e.IPAddress != "" {
		if client == "" {
			return e.IPAddress
		}
		client += " from " + e.IPAddress
	}
	return client
}
