package lifecycle

import (
	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

// Party is a signing side of a mandate.
type Party int

const (
	PartyNone Party = iota
	PartySeller
	PartyBroker
	PartyPlatform
)

func (p Party) String() string {
	switch p {
	case PartySeller:
		return "SELLER"
	case PartyBroker:
		return "BROKER"
	case PartyPlatform:
		return "PLATFORM"
	default:
		return "NONE"
	}
}

// Initiator is the side that created and signed first.
func Initiator(m domain.Mandate) Party {
	if m.InitiatedBy == saudapakka.InitiatedByBroker {
		return PartyBroker
	}
	return PartySeller
}

// Counterparty is the side whose signature activates the mandate.
func Counterparty(m domain.Mandate) Party {
	if m.InitiatedBy == saudapakka.InitiatedByBroker {
		return PartySeller
	}
	if m.DealType == saudapakka.DealWithPlatform {
		return PartyPlatform
	}
	return PartyBroker
}

// Represents reports whether the viewer acts for party p on m.
// Staff act for the platform only on WITH_PLATFORM deals.
func Represents(m domain.Mandate, v domain.Viewer, p Party) bool {
	if v.UserID == "" {
		return false
	}
	switch p {
	case PartySeller:
		return m.SellerID == v.UserID
	case PartyBroker:
		return m.BrokerID != nil && *m.BrokerID == v.UserID
	case PartyPlatform:
		return v.IsStaff && m.DealType == saudapakka.DealWithPlatform
	}
	return false
}

// IsParty reports whether the viewer is on either side of m.
func IsParty(m domain.Mandate, v domain.Viewer) bool {
	return Represents(m, v, PartySeller) ||
		Represents(m, v, PartyBroker) ||
		Represents(m, v, PartyPlatform)
}

// CanView scopes reads: staff see everything, others only mandates they are party to.
func CanView(m domain.Mandate, v domain.Viewer) bool {
	return v.IsStaff || IsParty(m, v)
}

// MyRole is INITIATOR when the viewer acts for the initiating side, RECIPIENT otherwise.
func MyRole(m domain.Mandate, v domain.Viewer) saudapakka.MyRole {
	if !IsParty(m, v) {
		return ""
	}
	if Represents(m, v, Initiator(m)) {
		return saudapakka.RoleInitiator
	}
	return saudapakka.RoleRecipient
}

func signatureSlot(m *domain.Mandate, p Party) **string {
	if p == PartySeller {
		return &m.SellerSignature
	}
	// the platform signs in the broker slot
	return &m.BrokerSignature
}
