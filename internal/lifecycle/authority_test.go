package lifecycle

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

var (
	seller = domain.Viewer{UserID: "seller-1", IsActiveSeller: true}
	broker = domain.Viewer{UserID: "broker-1", IsActiveBroker: true}
	staff  = domain.Viewer{UserID: "staff-1", IsStaff: true}
	other  = domain.Viewer{UserID: "stranger", IsActiveSeller: true}
	t0     = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

func testAuthority() Authority {
	return New(domain.DefaultConfig())
}

func property() domain.Property {
	return domain.Property{ID: "prop-1", Title: "Sunrise Villa", OwnerID: seller.UserID}
}

func openSellerBroker(t *testing.T) domain.Mandate {
	t.Helper()
	m, err := testAuthority().Open(OpenInput{
		ID:        "m-1",
		Property:  property(),
		Initiator: seller,
		Input: domain.CreateMandateInput{
			PropertyID:     "prop-1",
			InitiatedBy:    saudapakka.InitiatedBySeller,
			DealType:       saudapakka.DealWithBroker,
			BrokerID:       broker.UserID,
			CommissionRate: 2,
			Signature:      []byte("png"),
		},
		Signature: "sig/seller.png",
	}, t0)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return m
}

func openBrokerInitiated(t *testing.T) domain.Mandate {
	t.Helper()
	m, err := testAuthority().Open(OpenInput{
		ID:        "m-2",
		Property:  property(),
		Initiator: broker,
		Input: domain.CreateMandateInput{
			PropertyID:     "prop-1",
			InitiatedBy:    saudapakka.InitiatedByBroker,
			DealType:       saudapakka.DealWithBroker,
			CommissionRate: 1.5,
			IsExclusive:    true,
			Signature:      []byte("png"),
		},
		Signature: "sig/broker.png",
	}, t0)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return m
}

func openPlatform(t *testing.T) domain.Mandate {
	t.Helper()
	m, err := testAuthority().Open(OpenInput{
		ID:        "m-3",
		Property:  property(),
		Initiator: seller,
		Input: domain.CreateMandateInput{
			PropertyID:     "prop-1",
			InitiatedBy:    saudapakka.InitiatedBySeller,
			DealType:       saudapakka.DealWithPlatform,
			CommissionRate: 1,
			Signature:      []byte("png"),
		},
		Signature: "sig/seller.png",
	}, t0)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return m
}

func TestOpenSellerInitiated(t *testing.T) {
	m := openSellerBroker(t)

	if m.Status != saudapakka.StatusPending {
		t.Fatalf("expected PENDING got %s", m.Status)
	}
	if m.SellerSignature == nil || *m.SellerSignature != "sig/seller.png" {
		t.Fatalf("expected seller signature to be stored")
	}
	if m.BrokerSignature != nil {
		t.Fatalf("expected broker slot to be empty")
	}
	if m.BrokerID == nil || *m.BrokerID != broker.UserID {
		t.Fatalf("expected broker to be set")
	}
	if m.AcceptanceDeadline == nil || !m.AcceptanceDeadline.Equal(t0.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected acceptance deadline %v", m.AcceptanceDeadline)
	}
	if m.StartDate != nil || m.ExpiryDate != nil {
		t.Fatalf("pending mandate must not carry start or expiry")
	}
}

func TestOpenBrokerInitiatedUsesBrokerSlot(t *testing.T) {
	m := openBrokerInitiated(t)

	if m.SellerID != seller.UserID {
		t.Fatalf("expected seller from property owner got %s", m.SellerID)
	}
	if m.BrokerSignature == nil || m.SellerSignature != nil {
		t.Fatalf("expected only the broker slot to be signed")
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	a := testAuthority()

	cases := []struct {
		name  string
		in    OpenInput
		field string
	}{
		{
			name: "missing broker",
			in: OpenInput{
				Property:  property(),
				Initiator: seller,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithBroker, CommissionRate: 2, Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "broker",
		},
		{
			name: "missing signature",
			in: OpenInput{
				Property:  property(),
				Initiator: seller,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithPlatform, CommissionRate: 2,
				},
			},
			field: "seller_signature",
		},
		{
			name: "not owner",
			in: OpenInput{
				Property:  property(),
				Initiator: other,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithPlatform, CommissionRate: 2, Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "property_item",
		},
		{
			name: "broker on own property",
			in: OpenInput{
				Property:  domain.Property{ID: "prop-1", OwnerID: broker.UserID},
				Initiator: broker,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedByBroker,
					DealType: saudapakka.DealWithBroker, CommissionRate: 2, Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "property_item",
		},
		{
			name: "inactive broker",
			in: OpenInput{
				Property:  property(),
				Initiator: other,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedByBroker,
					DealType: saudapakka.DealWithBroker, CommissionRate: 2, Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "initiated_by",
		},
		{
			name: "commission out of range",
			in: OpenInput{
				Property:  property(),
				Initiator: seller,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithPlatform, CommissionRate: 101, Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "commission_rate",
		},
		{
			name: "commission not a number",
			in: OpenInput{
				Property:  property(),
				Initiator: seller,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithPlatform, CommissionRate: math.NaN(), Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "commission_rate",
		},
		{
			name: "commission infinite",
			in: OpenInput{
				Property:  property(),
				Initiator: seller,
				Input: domain.CreateMandateInput{
					PropertyID: "prop-1", InitiatedBy: saudapakka.InitiatedBySeller,
					DealType: saudapakka.DealWithPlatform, CommissionRate: math.Inf(1), Signature: []byte("x"),
				},
				Signature: "s",
			},
			field: "commission_rate",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Open(tc.in, t0)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %s in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestAcceptActivatesForValidity(t *testing.T) {
	a := testAuthority()
	m := openSellerBroker(t)

	now := t0.Add(2 * time.Hour)
	got, err := a.Accept(m, broker, "sig/broker.png", now)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if got.Status != saudapakka.StatusActive {
		t.Fatalf("expected ACTIVE got %s", got.Status)
	}
	if got.SellerSignature == nil || got.BrokerSignature == nil {
		t.Fatalf("active mandate must carry both signatures")
	}
	if !got.StartDate.Equal(now) || !got.ExpiryDate.Equal(now.Add(90*24*time.Hour)) {
		t.Fatalf("unexpected dates start=%v expiry=%v", got.StartDate, got.ExpiryDate)
	}
	if m.Status != saudapakka.StatusPending {
		t.Fatalf("input mandate must not be mutated")
	}
}

func TestAcceptPlatformBySeller(t *testing.T) {
	a := testAuthority()
	m := openBrokerInitiated(t)

	got, err := a.Accept(m, seller, "sig/seller.png", t0)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got.SellerSignature == nil || *got.SellerSignature != "sig/seller.png" {
		t.Fatalf("expected seller slot to be filled")
	}
}

func TestAcceptPlatformByStaff(t *testing.T) {
	a := testAuthority()
	m := openPlatform(t)

	if _, err := a.Accept(m, broker, "sig", t0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected broker to be refused got %v", err)
	}

	got, err := a.Accept(m, staff, "sig/platform.png", t0)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got.BrokerSignature == nil || *got.BrokerSignature != "sig/platform.png" {
		t.Fatalf("expected platform signature in the broker slot")
	}
	if got.BrokerID != nil {
		t.Fatalf("platform mandate must not gain a broker")
	}
}

func TestAcceptRefusals(t *testing.T) {
	a := testAuthority()
	pending := openSellerBroker(t)

	active, err := a.Accept(pending, broker, "sig", t0)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	cases := []struct {
		name      string
		m         domain.Mandate
		v         domain.Viewer
		sig       string
		forbidden bool
		message   string
	}{
		{"initiator", pending, seller, "sig", true, ""},
		{"stranger", pending, other, "sig", true, "You are not a party to this mandate."},
		{"staff on broker deal", pending, staff, "sig", true, "You are not a party to this mandate."},
		{"not pending", active, broker, "sig", false, "This mandate is not in a pending state."},
		{"empty signature", pending, broker, "", false, "Digital signature file is required to accept."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Accept(tc.m, tc.v, tc.sig, t0)
			var terr *domain.InvalidTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("expected invalid transition got %v", err)
			}
			if terr.Forbidden != tc.forbidden {
				t.Fatalf("expected forbidden=%v got %v", tc.forbidden, terr.Forbidden)
			}
			if tc.message != "" && terr.Message != tc.message {
				t.Fatalf("unexpected message %q", terr.Message)
			}
		})
	}
}

func TestAcceptAfterDeadlineExpires(t *testing.T) {
	a := testAuthority()
	m := openSellerBroker(t)

	_, err := a.Accept(m, broker, "sig", t0.Add(8*24*time.Hour))
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	a := testAuthority()
	m := openSellerBroker(t)

	if _, err := a.Reject(m, broker, "   ", t0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected blank reason to be refused got %v", err)
	}

	got, err := a.Reject(m, broker, "  Commission too low ", t0)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if got.Status != saudapakka.StatusRejected {
		t.Fatalf("expected REJECTED got %s", got.Status)
	}
	if got.RejectionReason == nil || *got.RejectionReason != "Commission too low" {
		t.Fatalf("unexpected reason %v", got.RejectionReason)
	}
	if got.EndDate == nil || !got.EndDate.Equal(t0) {
		t.Fatalf("expected end date to be set")
	}
}

func TestRejectByInitiatorIsForbidden(t *testing.T) {
	a := testAuthority()
	m := openSellerBroker(t)

	_, err := a.Reject(m, seller, "changed my mind", t0)
	var terr *domain.InvalidTransitionError
	if !errors.As(err, &terr) || !terr.Forbidden {
		t.Fatalf("expected forbidden transition got %v", err)
	}
}

func TestCancel(t *testing.T) {
	a := testAuthority()
	pending := openSellerBroker(t)
	active, _ := a.Accept(pending, broker, "sig", t0)

	for _, v := range []domain.Viewer{seller, broker, staff} {
		got, err := a.Cancel(active, v, t0.Add(time.Hour))
		if err != nil {
			t.Fatalf("cancel by %s failed: %v", v.UserID, err)
		}
		if got.Status != saudapakka.StatusTerminatedByUser || got.EndDate == nil {
			t.Fatalf("expected TERMINATED_BY_USER with end date got %s", got.Status)
		}
	}

	if _, err := a.Cancel(pending, other, t0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected stranger to be refused got %v", err)
	}

	rejected, _ := a.Reject(pending, broker, "no", t0)
	if _, err := a.Cancel(rejected, seller, t0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected terminal mandate to refuse cancel got %v", err)
	}
}

func TestExpire(t *testing.T) {
	a := testAuthority()
	pending := openSellerBroker(t)

	if _, changed := a.Expire(pending, t0.Add(6*24*time.Hour)); changed {
		t.Fatalf("pending mandate expired before its deadline")
	}
	expired, changed := a.Expire(pending, t0.Add(7*24*time.Hour))
	if !changed || expired.Status != saudapakka.StatusExpired {
		t.Fatalf("expected pending mandate to expire at its deadline")
	}

	active, _ := a.Accept(pending, broker, "sig", t0)
	if _, changed := a.Expire(active, t0.Add(89*24*time.Hour)); changed {
		t.Fatalf("active mandate expired early")
	}
	expired, changed = a.Expire(active, t0.Add(90*24*time.Hour))
	if !changed || expired.Status != saudapakka.StatusExpired {
		t.Fatalf("expected active mandate to expire")
	}
	if !expired.EndDate.Equal(*active.ExpiryDate) {
		t.Fatalf("expected end date to equal expiry date")
	}

	if _, changed := a.Expire(expired, t0.Add(365*24*time.Hour)); changed {
		t.Fatalf("terminal mandate must not change")
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	a := testAuthority()
	pending := openSellerBroker(t)
	rejected, _ := a.Reject(pending, broker, "no", t0)
	cancelled, _ := a.Cancel(pending, seller, t0)

	for _, m := range []domain.Mandate{rejected, cancelled} {
		if _, err := a.Accept(m, broker, "sig", t0); err == nil {
			t.Fatalf("accept succeeded on %s", m.Status)
		}
		if _, err := a.Reject(m, broker, "r", t0); err == nil {
			t.Fatalf("reject succeeded on %s", m.Status)
		}
		if _, err := a.Cancel(m, seller, t0); err == nil {
			t.Fatalf("cancel succeeded on %s", m.Status)
		}
		if _, err := a.Renew(m, seller, RenewInput{ID: "x"}, t0); err == nil {
			t.Fatalf("renew succeeded on %s", m.Status)
		}
	}
}

func TestRenewCopiesTerms(t *testing.T) {
	a := testAuthority()
	pending := openBrokerInitiated(t)
	active, _ := a.Accept(pending, seller, "sig/seller.png", t0)
	later := t0.Add(91 * 24 * time.Hour)

	renewed, err := a.Renew(active, seller, RenewInput{ID: "m-9"}, later)
	if err != nil {
		t.Fatalf("renew failed: %v", err)
	}

	if renewed.ID != "m-9" || renewed.RenewedFromID == nil || *renewed.RenewedFromID != active.ID {
		t.Fatalf("expected renewed mandate to link back to %s", active.ID)
	}
	if renewed.Status != saudapakka.StatusPending {
		t.Fatalf("expected PENDING got %s", renewed.Status)
	}
	if renewed.InitiatedBy != saudapakka.InitiatedBySeller {
		t.Fatalf("renewer should become the initiator")
	}
	if renewed.CommissionRate != active.CommissionRate || renewed.IsExclusive != active.IsExclusive {
		t.Fatalf("expected terms to be copied")
	}
	if renewed.SellerSignature == nil || *renewed.SellerSignature != "sig/seller.png" {
		t.Fatalf("expected previous seller signature to be reused")
	}
	if renewed.BrokerSignature != nil {
		t.Fatalf("counterparty must sign the renewal again")
	}
	if renewed.AcceptanceDeadline == nil || !renewed.AcceptanceDeadline.Equal(later.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected deadline")
	}
}

func TestRenewRefusals(t *testing.T) {
	a := testAuthority()
	pending := openPlatform(t)
	active, _ := a.Accept(pending, staff, "sig", t0)
	later := t0.Add(100 * 24 * time.Hour)

	if _, err := a.Renew(active, seller, RenewInput{ID: "x"}, t0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected active mandate to refuse renewal got %v", err)
	}
	if _, err := a.Renew(active, staff, RenewInput{ID: "x"}, later); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected staff renewal to be refused got %v", err)
	}
	if _, err := a.Renew(active, other, RenewInput{ID: "x"}, later); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected stranger renewal to be refused got %v", err)
	}
	if _, err := a.Renew(active, seller, RenewInput{ID: "x", Signature: "fresh"}, later); err != nil {
		t.Fatalf("seller renewal failed: %v", err)
	}
}

func TestNeedsWarning(t *testing.T) {
	a := testAuthority()
	pending := openSellerBroker(t)
	active, _ := a.Accept(pending, broker, "sig", t0)
	window := 7 * 24 * time.Hour

	if a.NeedsWarning(active, t0.Add(80*24*time.Hour), window) {
		t.Fatalf("warned too early")
	}
	if !a.NeedsWarning(active, t0.Add(84*24*time.Hour), window) {
		t.Fatalf("expected warning inside the window")
	}
	active.NearExpiryNotified = true
	if a.NeedsWarning(active, t0.Add(84*24*time.Hour), window) {
		t.Fatalf("warning must fire once")
	}
}

func TestMyRole(t *testing.T) {
	m := openSellerBroker(t)
	if MyRole(m, seller) != saudapakka.RoleInitiator {
		t.Fatalf("seller should be initiator")
	}
	if MyRole(m, broker) != saudapakka.RoleRecipient {
		t.Fatalf("broker should be recipient")
	}
	if MyRole(m, other) != "" {
		t.Fatalf("stranger has no role")
	}

	p := openPlatform(t)
	if MyRole(p, staff) != saudapakka.RoleRecipient {
		t.Fatalf("staff should receive platform mandates")
	}
	if !CanView(m, staff) || CanView(m, other) {
		t.Fatalf("unexpected visibility")
	}
}
