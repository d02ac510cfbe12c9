package domain

import (
	"github.com/saudapakka/saudapakka-mandate"
)

// Wire converts to the JSON shape served to clients. Signature references are
// exposed as URLs under signatureBase.
func (d MandateDetail) Wire(role saudapakka.MyRole, signatureBase string) saudapakka.Mandate {
	m := d.Mandate
	seller := m.SellerID
	return saudapakka.Mandate{
		ID:                 m.ID,
		PropertyItem:       m.PropertyID,
		PropertyTitle:      d.PropertyTitle,
		InitiatedBy:        m.InitiatedBy,
		DealType:           m.DealType,
		Broker:             m.BrokerID,
		BrokerName:         d.BrokerName,
		Seller:             &seller,
		SellerName:         d.SellerName,
		SellerSignature:    signatureURL(signatureBase, m.SellerSignature),
		BrokerSignature:    signatureURL(signatureBase, m.BrokerSignature),
		IsExclusive:        m.IsExclusive,
		CommissionRate:     m.CommissionRate,
		Status:             m.Status,
		RejectionReason:    m.RejectionReason,
		AcceptanceDeadline: m.AcceptanceDeadline,
		StartDate:          m.StartDate,
		ExpiryDate:         m.ExpiryDate,
		EndDate:            m.EndDate,
		RenewedFrom:        m.RenewedFromID,
		CreatedAt:          m.CreatedAt,
		MyRole:             role,
	}
}

func signatureURL(base string, ref *string) *string {
	if ref == nil {
		return nil
	}
	url := base + *ref
	return &url
}

func (p Property) Wire() saudapakka.Property {
	return saudapakka.Property{
		ID:            p.ID,
		Title:         p.Title,
		ProjectName:   p.ProjectName,
		Owner:         p.OwnerID,
		OwnerName:     p.OwnerName,
		AddressLine:   p.AddressLine,
		Locality:      p.Locality,
		City:          p.City,
		State:         p.State,
		Pincode:       p.Pincode,
		PropertyType:  p.PropertyType,
		CarpetArea:    p.CarpetArea,
		SpecificFloor: p.SpecificFloor,
		TotalPrice:    p.TotalPrice,
	}
}

func (u User) Wire() saudapakka.User {
	return saudapakka.User{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		IsActiveSeller: u.IsActiveSeller,
		IsActiveBroker: u.IsActiveBroker,
		IsStaff:        u.IsStaff,
	}
}

func (u User) Viewer() Viewer {
	return Viewer{
		UserID:         u.ID,
		IsActiveSeller: u.IsActiveSeller,
		IsActiveBroker: u.IsActiveBroker,
		IsStaff:        u.IsStaff,
	}
}

func (b BrokerProfile) Wire() saudapakka.BrokerProfile {
	return saudapakka.BrokerProfile{
		ID:             b.ID,
		FullName:       b.FullName,
		MobileNumber:   b.MobileNumber,
		ProfilePicture: b.AvatarURL,
	}
}

func (n Notification) Wire() saudapakka.Notification {
	return saudapakka.Notification{
		ID:        n.ID,
		Recipient: n.RecipientID,
		Title:     n.Title,
		Message:   n.Message,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// Wire is the identity view filters reason about; only id and role flags are set.
func (v Viewer) Wire() saudapakka.User {
	return saudapakka.User{
		ID:             v.UserID,
		IsActiveSeller: v.IsActiveSeller,
		IsActiveBroker: v.IsActiveBroker,
		IsStaff:        v.IsStaff,
	}
}
