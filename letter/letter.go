// Package letter renders the mandate letter shown to both parties.
package letter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
)

const (
	Term       = 90 * 24 * time.Hour
	DateLayout = "2 January 2006"

	PlatformPartnerName   = "SaudaPakka (A Brand of SaudaPakka)"
	PlatformDesignation   = "Official Exclusive Platform Marketing Partner"
	DefaultPartnerName    = "Exclusive Marketing and Sales Partner"
	DefaultDesignation    = "Exclusive Marketing and Sales Partner"
	DefaultOwnerName      = "Property Owner"
	DefaultPaymentDays    = 7
	DefaultNoticeDays     = 30
	missingAddressLineOne = "[Address Line 1]"
)

// Input is everything the letter depends on. Mandate may be a partial draft and
// Property may be nil; Today is explicit so rendering stays reproducible.
type Input struct {
	Mandate      *saudapakka.Mandate
	Property     *saudapakka.Property
	OwnerName    string
	PartnerName  string
	PlatformName string
	Jurisdiction string
	Today        time.Time
}

// Render substitutes every placeholder. Fields that cannot be resolved keep their
// bracketed placeholder text.
func Render(in Input) string {
	m := in.Mandate
	if m == nil {
		m = &saudapakka.Mandate{}
	}
	p := in.Property
	if p == nil {
		p = &saudapakka.Property{}
	}

	today := in.Today.Format(DateLayout)
	end := in.Today.Add(Term).Format(DateLayout)

	partner := partnerName(in, m)

	designation := DefaultDesignation
	if m.DealType == saudapakka.DealWithPlatform {
		designation = PlatformDesignation
	}

	exclusivity := phExclusivity
	if m.DealType != "" || m.ID != "" {
		exclusivity = "Non-Exclusive"
		if m.IsExclusive {
			exclusivity = "Exclusive"
		}
	}

	r := strings.NewReplacer(
		phDate, today,
		phStartDate, today,
		phEndDate, end,
		phOwner, ownerName(in, m, p),
		phPartner, partner,
		phSalutation, partner,
		phDesignation, designation,
		phProject, orPlaceholder(projectName(p), phProject),
		phAddress, orPlaceholder(p.AddressLine, missingAddressLineOne),
		phCityStatePin, orPlaceholder(joinNonEmpty(p.City, p.State, p.Pincode), phCityStatePin),
		phFullAddress, orPlaceholder(joinNonEmpty(p.AddressLine, p.Locality, p.City, p.State, p.Pincode), phFullAddress),
		phFlatType, orPlaceholder(p.PropertyType, phFlatType),
		phArea, area(p.CarpetArea),
		phFloor, floor(p.SpecificFloor),
		phCommission, commission(m.CommissionRate),
		phAmount, FormatINR(p.TotalPrice),
		phExclusivity, exclusivity,
		phPaymentDays, strconv.Itoa(DefaultPaymentDays),
		phNoticeDays, strconv.Itoa(DefaultNoticeDays),
		phJurisdiction, orPlaceholder(in.Jurisdiction, phJurisdiction),
	)
	return r.Replace(mandateTemplate)
}

func ownerName(in Input, m *saudapakka.Mandate, p *saudapakka.Property) string {
	switch {
	case strings.TrimSpace(in.OwnerName) != "":
		return in.OwnerName
	case m.SellerName != nil && strings.TrimSpace(*m.SellerName) != "":
		return *m.SellerName
	case strings.TrimSpace(p.OwnerName) != "":
		return p.OwnerName
	}
	return DefaultOwnerName
}

func partnerName(in Input, m *saudapakka.Mandate) string {
	if m.DealType == saudapakka.DealWithPlatform {
		if in.PlatformName != "" {
			return in.PlatformName
		}
		return PlatformPartnerName
	}
	if m.DealType == saudapakka.DealWithBroker && m.BrokerName != nil && strings.TrimSpace(*m.BrokerName) != "" {
		return *m.BrokerName
	}
	if strings.TrimSpace(in.PartnerName) != "" {
		return in.PartnerName
	}
	return DefaultPartnerName
}

func projectName(p *saudapakka.Property) string {
	if strings.TrimSpace(p.ProjectName) != "" {
		return p.ProjectName
	}
	return p.Title
}

func area(carpet string) string {
	carpet = strings.TrimSpace(carpet)
	if carpet == "" {
		return phArea
	}
	return carpet + " Sq.Ft"
}

func floor(n *int) string {
	if n == nil {
		return phFloor
	}
	if *n == 0 {
		return "Ground Floor"
	}
	return "Floor " + strconv.Itoa(*n)
}

func commission(rate float64) string {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return phCommission
	}
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}
