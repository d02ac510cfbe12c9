package letter

import (
	"strings"
	"testing"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
)

var today = time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func fullInput() Input {
	return Input{
		Mandate: &saudapakka.Mandate{
			ID:             "m-1",
			DealType:       saudapakka.DealWithBroker,
			InitiatedBy:    saudapakka.InitiatedBySeller,
			BrokerName:     ptr("Ravi Kulkarni"),
			SellerName:     ptr("Asha Patil"),
			IsExclusive:    true,
			CommissionRate: 2,
		},
		Property: &saudapakka.Property{
			Title:         "Sunrise Villa",
			AddressLine:   "12 MG Road",
			Locality:      "Cidco",
			City:          "Chhatrapati Sambhajinagar",
			State:         "Maharashtra",
			Pincode:       "431003",
			PropertyType:  "2BHK",
			CarpetArea:    "950",
			SpecificFloor: ptr(3),
			TotalPrice:    12345678,
		},
		Jurisdiction: "Chhatrapati Sambhajinagar, Maharashtra",
		Today:        today,
	}
}

func TestRenderSubstitutesEverything(t *testing.T) {
	out := Render(fullInput())

	for _, want := range []string{
		"**Date:** 5 January 2024",
		"until **4 April 2024**",
		"We, **Asha Patil**",
		"appoint **Ravi Kulkarni**",
		"Dear **Ravi Kulkarni**",
		"**Exclusive** marketing",
		"- **Flat Type:** 2BHK",
		"950 Sq.Ft",
		"Floor 3",
		"12 MG Road, Cidco, Chhatrapati Sambhajinagar, Maharashtra, 431003",
		"**2%** of the total",
		"₹1,23,45,678",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in rendered letter:\n%s", want, out)
		}
	}

	for _, ph := range []string{phDate, phOwner, phPartner, phProject, phAmount, phCommission, phJurisdiction} {
		if strings.Contains(out, ph) {
			t.Fatalf("placeholder %s left in fully specified letter", ph)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	in := fullInput()
	if Render(in) != Render(in) {
		t.Fatalf("rendering twice produced different output")
	}

	empty := Input{Today: today}
	if Render(empty) != Render(empty) {
		t.Fatalf("rendering an empty draft twice produced different output")
	}
}

func TestRenderDraftKeepsPlaceholders(t *testing.T) {
	out := Render(Input{Today: today})

	for _, want := range []string{phProject, phAmount, phCityStatePin, phFullAddress, phArea, phFloor, phCommission, missingAddressLineOne} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected placeholder %s in draft letter", want)
		}
	}
	if !strings.Contains(out, "We, **"+DefaultOwnerName+"**") {
		t.Fatalf("expected default owner name")
	}
	if !strings.Contains(out, "appoint **"+DefaultPartnerName+"**") {
		t.Fatalf("expected default partner name")
	}
	for _, bad := range []string{"undefined", "NaN", "<nil>", "₹0"} {
		if strings.Contains(out, bad) {
			t.Fatalf("draft letter contains %q", bad)
		}
	}
}

func TestRenderPlatformDeal(t *testing.T) {
	in := fullInput()
	in.Mandate.DealType = saudapakka.DealWithPlatform
	in.Mandate.BrokerName = nil

	out := Render(in)
	if !strings.Contains(out, "appoint **"+PlatformPartnerName+"**") {
		t.Fatalf("expected platform partner name")
	}
	if !strings.Contains(out, PlatformDesignation) {
		t.Fatalf("expected platform designation")
	}
}

func TestRenderPartnerFallback(t *testing.T) {
	in := fullInput()
	in.Mandate.BrokerName = nil
	in.PartnerName = "Selected Broker"
	in.OwnerName = "Override Owner"

	out := Render(in)
	if !strings.Contains(out, "appoint **Selected Broker**") {
		t.Fatalf("expected explicit partner name")
	}
	if !strings.Contains(out, "We, **Override Owner**") {
		t.Fatalf("expected explicit owner name to win")
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:          phAmount,
		-5:         phAmount,
		0.4:        phAmount,
		7:          "₹7",
		999:        "₹999",
		1000:       "₹1,000",
		12345:      "₹12,345",
		123456:     "₹1,23,456",
		5000000.6:  "₹50,00,001",
		1234567890: "₹1,23,45,67,890",
	}
	for in, want := range cases {
		if got := FormatINR(in); got != want {
			t.Fatalf("FormatINR(%v) = %q want %q", in, got, want)
		}
	}
}

func TestFloorAndCommission(t *testing.T) {
	if floor(ptr(0)) != "Ground Floor" {
		t.Fatalf("floor zero should be ground floor")
	}
	if commission(1.5) != "1.5%" {
		t.Fatalf("unexpected commission %s", commission(1.5))
	}
}
