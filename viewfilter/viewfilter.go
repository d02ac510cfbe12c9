// Package viewfilter partitions already-fetched mandates into the dashboard views.
// Every function is pure; nothing here issues requests.
package viewfilter

import (
	"math"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
)

// View names accepted by the list endpoint's ?view= parameter.
type View string

const (
	ViewAll           View = "all"
	ViewCreatedByMe   View = "created_by_me"
	ViewPendingAction View = "pending_action"
)

// ExpiringSoonWindow is how far ahead an active mandate is flagged as expiring soon.
const ExpiringSoonWindow = 15 * 24 * time.Hour

func ParseView(s string) (View, bool) {
	switch View(s) {
	case "", ViewAll:
		return ViewAll, true
	case ViewCreatedByMe:
		return ViewCreatedByMe, true
	case ViewPendingAction:
		return ViewPendingAction, true
	}
	return "", false
}

// matchesInitiator reports whether any of the viewer's roles is the initiating side.
func matchesInitiator(viewer saudapakka.User, m saudapakka.Mandate) bool {
	switch m.InitiatedBy {
	case saudapakka.InitiatedBySeller:
		return viewer.IsActiveSeller
	case saudapakka.InitiatedByBroker:
		return viewer.IsActiveBroker
	}
	return false
}

// All is every mandate the server returned; scoping already happened server-side.
func All(saudapakka.User, saudapakka.Mandate) bool {
	return true
}

func CreatedByMe(viewer saudapakka.User, m saudapakka.Mandate) bool {
	return matchesInitiator(viewer, m)
}

func PendingAction(viewer saudapakka.User, m saudapakka.Mandate) bool {
	return m.Status == saudapakka.StatusPending && !matchesInitiator(viewer, m)
}

// AdminActionable marks platform requests staff can sign for the platform.
func AdminActionable(viewer saudapakka.User, m saudapakka.Mandate) bool {
	return viewer.IsStaff &&
		m.Status == saudapakka.StatusPending &&
		m.DealType == saudapakka.DealWithPlatform
}

// ExpiringSoon is true for an active mandate whose expiry is in the future and
// at most ExpiringSoonWindow away, counted in whole days rounded up.
func ExpiringSoon(m saudapakka.Mandate, now time.Time) bool {
	if m.Status != saudapakka.StatusActive || m.ExpiryDate == nil {
		return false
	}
	if !m.ExpiryDate.After(now) {
		return false
	}
	days := math.Ceil(m.ExpiryDate.Sub(now).Hours() / 24)
	return days <= ExpiringSoonWindow.Hours()/24
}

// Predicate returns the membership function for a view.
func Predicate(view View) func(saudapakka.User, saudapakka.Mandate) bool {
	switch view {
	case ViewCreatedByMe:
		return CreatedByMe
	case ViewPendingAction:
		return PendingAction
	default:
		return All
	}
}

// Filter keeps the mandates belonging to view, preserving order.
func Filter(viewer saudapakka.User, mandates []saudapakka.Mandate, view View) []saudapakka.Mandate {
	match := Predicate(view)
	result := make([]saudapakka.Mandate, 0, len(mandates))
	for _, m := range mandates {
		if match(viewer, m) {
			result = append(result, m)
		}
	}
	return result
}
