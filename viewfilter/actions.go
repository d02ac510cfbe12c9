package viewfilter

import (
	"strings"
	"sync/atomic"

	"github.com/saudapakka/saudapakka-mandate"
)

// ReadGate latches once the mandate document has been scrolled to the end.
// It never unlatches; scrolling back up keeps the controls enabled.
type ReadGate struct {
	reached atomic.Bool
}

// MarkBottomReached is called whenever the end of the document becomes visible,
// whether the user scrolled there or the page jumped there.
func (g *ReadGate) MarkBottomReached() {
	g.reached.Store(true)
}

func (g *ReadGate) Read() bool {
	return g.reached.Load()
}

// Actions lists the controls a viewer may enact on a mandate detail page.
type Actions struct {
	Accept bool
	Reject bool
	Cancel bool
	Renew  bool
	// AwaitingRead is set when accept/reject would be available once the gate latches.
	AwaitingRead bool
}

// ActionsFor derives the enabled controls from the fetched mandate (with my_role),
// the viewer's flags and the read gate. The server re-checks every action.
func ActionsFor(viewer saudapakka.User, m saudapakka.Mandate, gate *ReadGate) Actions {
	var a Actions

	signer := m.MyRole == saudapakka.RoleRecipient || AdminActionable(viewer, m)
	if m.Status == saudapakka.StatusPending && signer {
		if gate != nil && gate.Read() {
			a.Accept = true
			a.Reject = true
		} else {
			a.AwaitingRead = true
		}
	}

	party := m.MyRole != ""
	switch m.Status {
	case saudapakka.StatusPending, saudapakka.StatusActive:
		a.Cancel = party || viewer.IsStaff
	case saudapakka.StatusExpired:
		platformSide := m.DealType == saudapakka.DealWithPlatform && m.MyRole == saudapakka.RoleRecipient
		a.Renew = party && !platformSide
	}

	return a
}

// CanSubmitAccept gates the confirm button of the accept dialog.
func CanSubmitAccept(signed, agreed bool) bool {
	return signed && agreed
}

// CanSubmitReject gates the confirm button of the reject dialog.
// Whitespace is judged the same way the server trims the reason.
func CanSubmitReject(reason string) bool {
	return strings.TrimSpace(reason) != ""
}
