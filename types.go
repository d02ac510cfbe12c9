package saudapakka

import (
	"time"
)

type MandateStatus string

const (
	StatusPending          MandateStatus = "PENDING"
	StatusActive           MandateStatus = "ACTIVE"
	StatusRejected         MandateStatus = "REJECTED"
	StatusTerminatedByUser MandateStatus = "TERMINATED_BY_USER"
	StatusExpired          MandateStatus = "EXPIRED"
)

type InitiatedBy string

const (
	InitiatedBySeller InitiatedBy = "SELLER"
	InitiatedByBroker InitiatedBy = "BROKER"
)

type DealType string

const (
	DealWithBroker   DealType = "WITH_BROKER"
	DealWithPlatform DealType = "WITH_PLATFORM"
)

// MyRole is the viewer's position relative to a mandate.
type MyRole string

const (
	RoleInitiator MyRole = "INITIATOR"
	RoleRecipient MyRole = "RECIPIENT"
)

type Mandate struct {
	ID                 string        `json:"id"`
	PropertyItem       string        `json:"property_item"`
	PropertyTitle      string        `json:"property_title,omitempty"`
	InitiatedBy        InitiatedBy   `json:"initiated_by"`
	DealType           DealType      `json:"deal_type"`
	Broker             *string       `json:"broker,omitempty"`
	BrokerName         *string       `json:"broker_name,omitempty"`
	Seller             *string       `json:"seller,omitempty"`
	SellerName         *string       `json:"seller_name,omitempty"`
	SellerSignature    *string       `json:"seller_signature,omitempty"`
	BrokerSignature    *string       `json:"broker_signature,omitempty"`
	IsExclusive        bool          `json:"is_exclusive"`
	CommissionRate     float64       `json:"commission_rate,omitempty"`
	Status             MandateStatus `json:"status"`
	RejectionReason    *string       `json:"rejection_reason,omitempty"`
	AcceptanceDeadline *time.Time    `json:"acceptance_deadline,omitempty"`
	StartDate          *time.Time    `json:"start_date,omitempty"`
	ExpiryDate         *time.Time    `json:"expiry_date,omitempty"`
	EndDate            *time.Time    `json:"end_date,omitempty"`
	RenewedFrom        *string       `json:"renewed_from,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	MyRole             MyRole        `json:"my_role,omitempty"`
}

type CreateMandateRequest struct {
	PropertyItem   string      `json:"property_item" form:"property_item"`
	InitiatedBy    InitiatedBy `json:"initiated_by" form:"initiated_by"`
	DealType       DealType    `json:"deal_type" form:"deal_type"`
	Broker         string      `json:"broker,omitempty" form:"broker"`
	IsExclusive    bool        `json:"is_exclusive" form:"is_exclusive"`
	CommissionRate float64     `json:"commission_rate,omitempty" form:"commission_rate"`
}

// SignatureField is the multipart field carrying the initiator's signature.
func (r CreateMandateRequest) SignatureField() string {
	if r.InitiatedBy == InitiatedByBroker {
		return "broker_signature"
	}
	return "seller_signature"
}

type RejectMandateRequest struct {
	Reason string `json:"reason"`
}

type BrokerProfile struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	MobileNumber   string  `json:"mobile_number"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type Property struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	ProjectName   string  `json:"project_name,omitempty"`
	Owner         string  `json:"owner"`
	OwnerName     string  `json:"owner_name,omitempty"`
	AddressLine   string  `json:"address_line,omitempty"`
	Locality      string  `json:"locality,omitempty"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	Pincode       string  `json:"pincode,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	CarpetArea    string  `json:"carpet_area,omitempty"`
	SpecificFloor *int    `json:"specific_floor,omitempty"`
	TotalPrice    float64 `json:"total_price,omitempty"`
}

type User struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	IsActiveSeller bool   `json:"is_active_seller"`
	IsActiveBroker bool   `json:"is_active_broker"`
	IsStaff        bool   `json:"is_staff"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionURL *string   `json:"action_url,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is pushed over the realtime channel whenever a notification is created.
type Event struct {
	Type         string       `json:"type"`
	MandateID    string       `json:"mandate_id,omitempty"`
	Notification Notification `json:"notification"`
}
