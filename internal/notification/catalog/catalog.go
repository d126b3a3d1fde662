// Package catalog holds the static notification template table and the tier
// selection rules that pick a template from a day count. Templates are
// immutable configuration, not user-editable data.
package catalog

import (
	"fmt"
	"time"

	"datacatalog/internal/notification"
	"datacatalog/pkg/template"
)

// Urgency ranks how prominently a notification should surface.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Category groups templates by lifecycle concern.
type Category string

const (
	CategoryExpiration     Category = "expiration"
	CategoryRevocation     Category = "revocation"
	CategoryRenewal        Category = "renewal"
	CategoryAdministrative Category = "administrative"
)

// TemplateType names what a template announces. The three scheduler-driven
// types mirror notification.Type; the rest cover confirmations and forced
// revocations rendered directly by admin actions.
type TemplateType string

const (
	TypeExpirationReminder  TemplateType = "expiration_reminder"
	TypeRevocationNotice    TemplateType = "revocation_notice"
	TypeRevocationReminder  TemplateType = "revocation_reminder"
	TypeRenewalConfirmation TemplateType = "renewal_confirmation"
	TypeAccessRevoked       TemplateType = "access_revoked"
)

// Template is one static catalog row.
type Template struct {
	ID              string
	Type            TemplateType
	Title           string
	MessageTemplate string
	Variables       []string
	UrgencyLevel    Urgency
	Category        Category
}

// templates is the full catalog: three expiration tiers, three revocation
// tiers, one renewal confirmation, three force-revocation cause variants.
var templates = []Template{
	{
		ID:              "expiration-30-day",
		Type:            TypeExpirationReminder,
		Title:           "Access Expiring in 30 Days",
		MessageTemplate: "Your access to {productName} expires on {expirationDate}. Request a renewal before then to avoid interruption.",
		Variables:       []string{"productName", "expirationDate"},
		UrgencyLevel:    UrgencyLow,
		Category:        CategoryExpiration,
	},
	{
		ID:              "expiration-7-day",
		Type:            TypeExpirationReminder,
		Title:           "Access Expiring in 7 Days",
		MessageTemplate: "Your access to {productName} expires on {expirationDate}. Renew now to keep your access.",
		Variables:       []string{"productName", "expirationDate"},
		UrgencyLevel:    UrgencyMedium,
		Category:        CategoryExpiration,
	},
	{
		ID:              "expiration-1-day",
		Type:            TypeExpirationReminder,
		Title:           "Access Expires Tomorrow",
		MessageTemplate: "Your access to {productName} expires on {expirationDate}. This is your final reminder.",
		Variables:       []string{"productName", "expirationDate"},
		UrgencyLevel:    UrgencyHigh,
		Category:        CategoryExpiration,
	},
	{
		ID:              "revocation-30-day",
		Type:            TypeRevocationNotice,
		Title:           "Access Scheduled for Revocation",
		MessageTemplate: "Your access to {productName} has been scheduled for revocation on {revocationDate}. Contact your administrator if you believe this is an error.",
		Variables:       []string{"productName", "revocationDate"},
		UrgencyLevel:    UrgencyMedium,
		Category:        CategoryRevocation,
	},
	{
		ID:              "revocation-7-day",
		Type:            TypeRevocationReminder,
		Title:           "Access Revocation in 7 Days",
		MessageTemplate: "Your access to {productName} will be revoked on {revocationDate}.",
		Variables:       []string{"productName", "revocationDate"},
		UrgencyLevel:    UrgencyHigh,
		Category:        CategoryRevocation,
	},
	{
		ID:              "revocation-1-day",
		Type:            TypeRevocationReminder,
		Title:           "Access Revocation Tomorrow",
		MessageTemplate: "Your access to {productName} will be revoked on {revocationDate}. This is your final notice.",
		Variables:       []string{"productName", "revocationDate"},
		UrgencyLevel:    UrgencyCritical,
		Category:        CategoryRevocation,
	},
	{
		ID:              "renewal-confirmation",
		Type:            TypeRenewalConfirmation,
		Title:           "Access Renewed",
		MessageTemplate: "Your access to {productName} has been renewed. The new expiration date is {newExpirationDate}.",
		Variables:       []string{"productName", "newExpirationDate"},
		UrgencyLevel:    UrgencyLow,
		Category:        CategoryRenewal,
	},
	{
		ID:              "revoked-policy-violation",
		Type:            TypeAccessRevoked,
		Title:           "Access Revoked: Policy Violation",
		MessageTemplate: "Your access to {productName} has been revoked due to a policy violation. Contact your administrator for details.",
		Variables:       []string{"productName"},
		UrgencyLevel:    UrgencyCritical,
		Category:        CategoryAdministrative,
	},
	{
		ID:              "revoked-security-incident",
		Type:            TypeAccessRevoked,
		Title:           "Access Revoked: Security Incident",
		MessageTemplate: "Your access to {productName} has been revoked as part of a security incident response.",
		Variables:       []string{"productName"},
		UrgencyLevel:    UrgencyCritical,
		Category:        CategoryAdministrative,
	},
	{
		ID:              "revoked-administrative",
		Type:            TypeAccessRevoked,
		Title:           "Access Revoked",
		MessageTemplate: "Your access to {productName} has been revoked by an administrator.",
		Variables:       []string{"productName"},
		UrgencyLevel:    UrgencyHigh,
		Category:        CategoryAdministrative,
	},
}

// All returns a copy of the full template table.
func All() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// ByID looks up one template, or nil when the id is unknown.
func ByID(id string) *Template {
	for i := range templates {
		if templates[i].ID == id {
			t := templates[i]
			return &t
		}
	}
	return nil
}

// ByType returns all templates of the given type.
func ByType(templateType TemplateType) []Template {
	var out []Template
	for _, t := range templates {
		if t.Type == templateType {
			out = append(out, t)
		}
	}
	return out
}

// ByCategory returns all templates in the given category.
func ByCategory(category Category) []Template {
	var out []Template
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// ByUrgency returns all templates at the given urgency level.
func ByUrgency(urgency Urgency) []Template {
	var out []Template
	for _, t := range templates {
		if t.UrgencyLevel == urgency {
			out = append(out, t)
		}
	}
	return out
}

// ExpirationTemplateFor selects the expiration tier for a day count:
// >=30 days picks the 30-day template, >=7 the 7-day, >=1 the 1-day.
// Below one day there is nothing left to announce.
func ExpirationTemplateFor(daysUntil int) *Template {
	switch {
	case daysUntil >= 30:
		return ByID("expiration-30-day")
	case daysUntil >= 7:
		return ByID("expiration-7-day")
	case daysUntil >= 1:
		return ByID("expiration-1-day")
	default:
		return nil
	}
}

// RevocationTemplateFor selects the revocation tier with the same thresholds
// as ExpirationTemplateFor.
func RevocationTemplateFor(daysUntil int) *Template {
	switch {
	case daysUntil >= 30:
		return ByID("revocation-30-day")
	case daysUntil >= 7:
		return ByID("revocation-7-day")
	case daysUntil >= 1:
		return ByID("revocation-1-day")
	default:
		return nil
	}
}

// ForceRevocationTemplateFor maps a revocation cause to its template,
// defaulting to the plain administrative variant.
func ForceRevocationTemplateFor(cause string) *Template {
	switch cause {
	case "policy_violation":
		return ByID("revoked-policy-violation")
	case "security_incident":
		return ByID("revoked-security-incident")
	default:
		return ByID("revoked-administrative")
	}
}

// Populate substitutes the template's declared variables into its title and
// message. Unresolved placeholders remain literally in the string, matching
// template.Substitute semantics.
func Populate(t Template, variables map[string]string) (title, message string) {
	scoped := make(map[string]string, len(t.Variables))
	for _, name := range t.Variables {
		if value, ok := variables[name]; ok {
			scoped[name] = value
		}
	}
	return template.Substitute(t.Title, scoped), template.Substitute(t.MessageTemplate, scoped)
}

// BatchRequest is one notification to render in a batch pass.
type BatchRequest struct {
	UserID          string
	UserName        string
	UserEmail       string
	ProductID       string
	ProductName     string
	Type            notification.Type
	DaysUntilTarget int
	TargetDate      time.Time
}

// Rendered is a delivery-ready notification payload.
type Rendered struct {
	UserID       string
	UserName     string
	UserEmail    string
	ProductID    string
	ProductName  string
	Title        string
	Message      string
	UrgencyLevel Urgency
	Type         TemplateType
}

// dateFormat is the human-facing date rendering used in messages.
const dateFormat = "January 2, 2006"

// ProcessBatch renders each request with the tier template for its type and
// day count. A request with no matching tier (daysUntilTarget <= 0) fails the
// call: silently omitting a notification would hide a scheduling bug, so
// callers must pre-filter invalid requests.
func ProcessBatch(requests []BatchRequest) ([]Rendered, error) {
	out := make([]Rendered, 0, len(requests))
	for _, req := range requests {
		var tier *Template
		switch req.Type {
		case notification.TypeExpirationReminder:
			tier = ExpirationTemplateFor(req.DaysUntilTarget)
		case notification.TypeRevocationNotice, notification.TypeRevocationReminder:
			tier = RevocationTemplateFor(req.DaysUntilTarget)
		default:
			return nil, fmt.Errorf("unsupported notification type %q for user %s", req.Type, req.UserID)
		}
		if tier == nil {
			return nil, fmt.Errorf("no template tier matches %q at %d days for access of user %s", req.Type, req.DaysUntilTarget, req.UserID)
		}

		formatted := req.TargetDate.Format(dateFormat)
		title, message := Populate(*tier, map[string]string{
			"productName":       req.ProductName,
			"expirationDate":    formatted,
			"revocationDate":    formatted,
			"newExpirationDate": formatted,
		})
		out = append(out, Rendered{
			UserID:       req.UserID,
			UserName:     req.UserName,
			UserEmail:    req.UserEmail,
			ProductID:    req.ProductID,
			ProductName:  req.ProductName,
			Title:        title,
			Message:      message,
			UrgencyLevel: tier.UrgencyLevel,
			Type:         tier.Type,
		})
	}
	return out, nil
}
