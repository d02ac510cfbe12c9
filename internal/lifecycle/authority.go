package lifecycle

import (
	"strings"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

// Authority applies mandate transitions. It never touches storage: every method
// takes the current mandate and returns the next value or an error.
type Authority struct {
	Validity         time.Duration
	AcceptanceWindow time.Duration
}

func New(conf domain.Config) Authority {
	validity := conf.Validity
	if validity <= 0 {
		validity = domain.MandateValidity
	}
	return Authority{
		Validity:         validity,
		AcceptanceWindow: conf.AcceptanceWindow,
	}
}

type OpenInput struct {
	ID        string
	Property  domain.Property
	Initiator domain.Viewer
	Input     domain.CreateMandateInput
	Signature string
}

// Open creates a PENDING mandate holding the initiator's signature.
func (a Authority) Open(in OpenInput, now time.Time) (domain.Mandate, error) {
	if err := in.Input.Validate(); err != nil {
		return domain.Mandate{}, err
	}
	if in.Signature == "" {
		return domain.Mandate{}, domain.Invalid(in.Input.SignatureField(), "Please sign the mandate before submitting.")
	}

	m := domain.Mandate{
		ID:             in.ID,
		PropertyID:     in.Property.ID,
		SellerID:       in.Property.OwnerID,
		InitiatedBy:    in.Input.InitiatedBy,
		DealType:       in.Input.DealType,
		IsExclusive:    in.Input.IsExclusive,
		CommissionRate: in.Input.CommissionRate,
		Status:         saudapakka.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch in.Input.InitiatedBy {
	case saudapakka.InitiatedBySeller:
		if in.Property.OwnerID != in.Initiator.UserID {
			return domain.Mandate{}, domain.Invalid("property_item", "You can only initiate a mandate for a property you own.")
		}
		if in.Input.DealType == saudapakka.DealWithBroker {
			broker := strings.TrimSpace(in.Input.BrokerID)
			if broker == in.Initiator.UserID {
				return domain.Mandate{}, domain.Invalid("broker", "You cannot appoint yourself as the broker.")
			}
			m.BrokerID = &broker
		}
	case saudapakka.InitiatedByBroker:
		if !in.Initiator.IsActiveBroker {
			return domain.Mandate{}, domain.Invalid("initiated_by", "Only active brokers can initiate a mandate as BROKER.")
		}
		if in.Property.OwnerID == in.Initiator.UserID {
			return domain.Mandate{}, domain.Invalid("property_item", "You cannot initiate a broker mandate on your own property.")
		}
		broker := in.Initiator.UserID
		m.BrokerID = &broker
	}

	sig := in.Signature
	*signatureSlot(&m, Initiator(m)) = &sig

	if a.AcceptanceWindow > 0 {
		deadline := now.Add(a.AcceptanceWindow)
		m.AcceptanceDeadline = &deadline
	}

	return m, nil
}

// Expire applies the time-driven transitions. The bool reports whether m changed.
func (a Authority) Expire(m domain.Mandate, now time.Time) (domain.Mandate, bool) {
	switch m.Status {
	case saudapakka.StatusActive:
		if m.ExpiryDate == nil || now.Before(*m.ExpiryDate) {
			return m, false
		}
		end := *m.ExpiryDate
		m.EndDate = &end
	case saudapakka.StatusPending:
		if m.AcceptanceDeadline == nil || now.Before(*m.AcceptanceDeadline) {
			return m, false
		}
		end := *m.AcceptanceDeadline
		m.EndDate = &end
	default:
		return m, false
	}
	m.Status = saudapakka.StatusExpired
	m.UpdatedAt = now
	return m, true
}

// CheckAccept runs every Accept precondition except the signature itself,
// so callers can refuse before persisting an artifact.
func (a Authority) CheckAccept(m domain.Mandate, v domain.Viewer, now time.Time) (Party, error) {
	m, _ = a.Expire(m, now)
	if m.Status != saudapakka.StatusPending {
		return PartyNone, domain.InvalidTransition("This mandate is not in a pending state.")
	}

	cp := Counterparty(m)
	if !Represents(m, v, cp) {
		if Represents(m, v, Initiator(m)) {
			return PartyNone, domain.NotAParty("You initiated this mandate; the other party must accept it.")
		}
		return PartyNone, domain.NotAParty("You are not a party to this mandate.")
	}

	if *signatureSlot(&m, cp) != nil {
		return PartyNone, domain.InvalidTransition("You have already signed this mandate.")
	}
	return cp, nil
}

// Accept stores the counterparty signature and activates the mandate for Validity.
func (a Authority) Accept(m domain.Mandate, v domain.Viewer, signature string, now time.Time) (domain.Mandate, error) {
	cp, err := a.CheckAccept(m, v, now)
	if err != nil {
		return domain.Mandate{}, err
	}
	if signature == "" {
		return domain.Mandate{}, domain.InvalidTransition("Digital signature file is required to accept.")
	}

	sig := signature
	*signatureSlot(&m, cp) = &sig

	start := now
	expiry := now.Add(a.Validity)
	m.Status = saudapakka.StatusActive
	m.StartDate = &start
	m.ExpiryDate = &expiry
	m.UpdatedAt = now
	return m, nil
}

// Reject records the counterparty's reason and closes the request.
func (a Authority) Reject(m domain.Mandate, v domain.Viewer, reason string, now time.Time) (domain.Mandate, error) {
	m, _ = a.Expire(m, now)
	if m.Status != saudapakka.StatusPending {
		return domain.Mandate{}, domain.InvalidTransition("Can only reject pending mandates.")
	}
	if !Represents(m, v, Counterparty(m)) {
		if Represents(m, v, Initiator(m)) {
			return domain.Mandate{}, domain.NotAParty("You initiated this mandate; cancel it instead of rejecting.")
		}
		return domain.Mandate{}, domain.NotAParty("You are not a party to this mandate.")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Mandate{}, domain.InvalidTransition("A reason is required to reject a mandate.")
	}

	end := now
	m.Status = saudapakka.StatusRejected
	m.RejectionReason = &reason
	m.EndDate = &end
	m.UpdatedAt = now
	return m, nil
}

// Cancel terminates a pending or active mandate. Staff may cancel any mandate.
func (a Authority) Cancel(m domain.Mandate, v domain.Viewer, now time.Time) (domain.Mandate, error) {
	m, _ = a.Expire(m, now)
	if m.Status != saudapakka.StatusPending && m.Status != saudapakka.StatusActive {
		return domain.Mandate{}, domain.InvalidTransition("Only pending or active mandates can be cancelled.")
	}
	if !v.IsStaff && !IsParty(m, v) {
		return domain.Mandate{}, domain.NotAParty("Permission denied.")
	}

	end := now
	m.Status = saudapakka.StatusTerminatedByUser
	m.EndDate = &end
	m.UpdatedAt = now
	return m, nil
}

type RenewInput struct {
	ID string
	// Signature is a freshly captured signature; empty reuses the renewer's previous one.
	Signature string
}

// Renew creates a sibling PENDING mandate from an expired one. The renewer becomes
// the initiator and the original is returned unchanged.
func (a Authority) Renew(m domain.Mandate, v domain.Viewer, in RenewInput, now time.Time) (domain.Mandate, error) {
	m, _ = a.Expire(m, now)
	if m.Status != saudapakka.StatusExpired {
		return domain.Mandate{}, domain.InvalidTransition("Only expired mandates can be renewed.")
	}

	var initiatedBy saudapakka.InitiatedBy
	var renewer Party
	switch {
	case Represents(m, v, PartySeller):
		initiatedBy, renewer = saudapakka.InitiatedBySeller, PartySeller
	case Represents(m, v, PartyBroker):
		initiatedBy, renewer = saudapakka.InitiatedByBroker, PartyBroker
	case Represents(m, v, PartyPlatform):
		return domain.Mandate{}, domain.NotAParty("Only the seller can renew a platform mandate.")
	default:
		return domain.Mandate{}, domain.NotAParty("You are not a party to this mandate.")
	}

	sig := in.Signature
	if sig == "" {
		prev := *signatureSlot(&m, renewer)
		if prev == nil {
			return domain.Mandate{}, domain.InvalidTransition("No signature on record; sign the renewal to continue.")
		}
		sig = *prev
	}

	renewed := domain.Mandate{
		ID:             in.ID,
		PropertyID:     m.PropertyID,
		SellerID:       m.SellerID,
		InitiatedBy:    initiatedBy,
		DealType:       m.DealType,
		IsExclusive:    m.IsExclusive,
		CommissionRate: m.CommissionRate,
		Status:         saudapakka.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if m.BrokerID != nil {
		broker := *m.BrokerID
		renewed.BrokerID = &broker
	}
	from := m.ID
	renewed.RenewedFromID = &from
	*signatureSlot(&renewed, renewer) = &sig

	if a.AcceptanceWindow > 0 {
		deadline := now.Add(a.AcceptanceWindow)
		renewed.AcceptanceDeadline = &deadline
	}

	return renewed, nil
}

// NeedsWarning reports an active mandate entering the warning window that was not yet notified.
func (a Authority) NeedsWarning(m domain.Mandate, now time.Time, window time.Duration) bool {
	if m.Status != saudapakka.StatusActive || m.NearExpiryNotified || m.ExpiryDate == nil {
		return false
	}
	return !now.Add(window).Before(*m.ExpiryDate) && now.Before(*m.ExpiryDate)
}
