package domain

import (
	"math"
	"strings"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
)

const (
	MandateValidity    = 90 * 24 * time.Hour
	AcceptanceWindow   = 7 * 24 * time.Hour
	MaxCommissionRate  = 100.0
	PlatformSignerName = "SaudaPakka (A Brand of SaudaPakka)"
)

// Mandate is the server-side view of a marketing-authority agreement.
type Mandate struct {
	ID                 string
	PropertyID         string
	SellerID           string
	BrokerID           *string
	InitiatedBy        saudapakka.InitiatedBy
	DealType           saudapakka.DealType
	IsExclusive        bool
	CommissionRate     float64
	Status             saudapakka.MandateStatus
	SellerSignature    *string
	BrokerSignature    *string
	RejectionReason    *string
	AcceptanceDeadline *time.Time
	StartDate          *time.Time
	ExpiryDate         *time.Time
	EndDate            *time.Time
	RenewedFromID      *string
	NearExpiryNotified bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (m Mandate) IsTerminal() bool {
	return IsTerminal(m.Status)
}

func IsTerminal(s saudapakka.MandateStatus) bool {
	switch s {
	case saudapakka.StatusRejected, saudapakka.StatusExpired, saudapakka.StatusTerminatedByUser:
		return true
	}
	return false
}

func ValidStatus(s saudapakka.MandateStatus) bool {
	switch s {
	case saudapakka.StatusPending, saudapakka.StatusActive:
		return true
	}
	return IsTerminal(s)
}

// MandateDetail bundles a mandate with the display names the presenter expands.
type MandateDetail struct {
	Mandate       Mandate
	PropertyTitle string
	SellerName    *string
	BrokerName    *string
}

type CreateMandateInput struct {
	PropertyID     string
	InitiatedBy    saudapakka.InitiatedBy
	DealType       saudapakka.DealType
	BrokerID       string
	IsExclusive    bool
	CommissionRate float64
	Signature      []byte
}

// Validate checks the payload shape only; ownership and broker resolution need storage.
func (in CreateMandateInput) Validate() error {
	verr := NewValidationError()

	if strings.TrimSpace(in.PropertyID) == "" {
		verr.Add("property_item", "This field is required.")
	}

	switch in.InitiatedBy {
	case saudapakka.InitiatedBySeller, saudapakka.InitiatedByBroker:
	case "":
		verr.Add("initiated_by", "This field is required.")
	default:
		verr.Add("initiated_by", "\""+string(in.InitiatedBy)+"\" is not a valid choice.")
	}

	switch in.DealType {
	case saudapakka.DealWithBroker, saudapakka.DealWithPlatform:
	case "":
		verr.Add("deal_type", "This field is required.")
	default:
		verr.Add("deal_type", "\""+string(in.DealType)+"\" is not a valid choice.")
	}

	if in.InitiatedBy == saudapakka.InitiatedBySeller && in.DealType == saudapakka.DealWithBroker && strings.TrimSpace(in.BrokerID) == "" {
		verr.Add("broker", "You must specify which Broker you are hiring.")
	}
	if in.InitiatedBy == saudapakka.InitiatedByBroker && in.DealType == saudapakka.DealWithPlatform {
		verr.Add("deal_type", "Brokers can only initiate mandates with themselves as the marketing partner.")
	}

	if math.IsNaN(in.CommissionRate) || math.IsInf(in.CommissionRate, 0) {
		verr.Add("commission_rate", "A valid number is required.")
	} else if in.CommissionRate <= 0 {
		verr.Add("commission_rate", "Commission rate must be greater than zero.")
	} else if in.CommissionRate > MaxCommissionRate {
		verr.Add("commission_rate", "Commission rate cannot exceed 100%.")
	}

	if len(in.Signature) == 0 {
		verr.Add(in.SignatureField(), "Please sign the mandate before submitting.")
	}

	return verr.OrNil()
}

func (in CreateMandateInput) SignatureField() string {
	if in.InitiatedBy == saudapakka.InitiatedByBroker {
		return "broker_signature"
	}
	return "seller_signature"
}

// SweepResult counts what a single expiry sweep changed.
type SweepResult struct {
	PendingExpired int
	ActiveExpired  int
	Warnings       int
}
