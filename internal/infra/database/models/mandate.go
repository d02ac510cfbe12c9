package models

import (
	"time"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:text"`
	FullName       string    `json:"fullName" gorm:"type:text;not null"`
	Email          string    `json:"email" gorm:"type:text;uniqueIndex;not null"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"type:text;index"`
	PasswordHash   string    `json:"-" gorm:"type:text"`
	AvatarURL      *string   `json:"avatarURL" gorm:"type:text"`
	IsActiveSeller bool      `json:"isActiveSeller" gorm:"not null;default:false"`
	IsActiveBroker bool      `json:"isActiveBroker" gorm:"not null;default:false;index"`
	IsStaff        bool      `json:"isStaff" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Property struct {
	ID            string    `json:"id" gorm:"primaryKey;type:text"`
	Title         string    `json:"title" gorm:"type:text;not null"`
	ProjectName   string    `json:"projectName" gorm:"type:text"`
	OwnerID       string    `json:"ownerID" gorm:"type:text;index;not null"`
	Owner         User      `json:"owner" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE;"`
	AddressLine   string    `json:"addressLine" gorm:"type:text"`
	Locality      string    `json:"locality" gorm:"type:text"`
	City          string    `json:"city" gorm:"type:text"`
	State         string    `json:"state" gorm:"type:text"`
	Pincode       string    `json:"pincode" gorm:"type:text"`
	PropertyType  string    `json:"propertyType" gorm:"type:text"`
	CarpetArea    string    `json:"carpetArea" gorm:"type:text"`
	SpecificFloor *int      `json:"specificFloor"`
	TotalPrice    float64   `json:"totalPrice"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Mandate struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:text"`
	PropertyID         string     `json:"propertyID" gorm:"type:text;index;not null"`
	Property           Property   `json:"property" gorm:"foreignKey:PropertyID;references:ID;constraint:OnDelete:CASCADE;"`
	SellerID           string     `json:"sellerID" gorm:"type:text;index;not null"`
	Seller             User       `json:"seller" gorm:"foreignKey:SellerID;references:ID;constraint:OnDelete:CASCADE;"`
	BrokerID           *string    `json:"brokerID" gorm:"type:text;index"`
	Broker             *User      `json:"broker" gorm:"foreignKey:BrokerID;references:ID;constraint:OnDelete:SET NULL;"`
	InitiatedBy        string     `json:"initiatedBy" gorm:"type:text;not null"`
	DealType           string     `json:"dealType" gorm:"type:text;not null"`
	IsExclusive        bool       `json:"isExclusive" gorm:"not null;default:false"`
	CommissionRate     float64    `json:"commissionRate" gorm:"not null"`
	Status             string     `json:"status" gorm:"type:text;index;not null"`
	SellerSignature    *string    `json:"sellerSignature" gorm:"type:text"`
	BrokerSignature    *string    `json:"brokerSignature" gorm:"type:text"`
	RejectionReason    *string    `json:"rejectionReason" gorm:"type:text"`
	AcceptanceDeadline *time.Time `json:"acceptanceDeadline" gorm:"index"`
	StartDate          *time.Time `json:"startDate"`
	ExpiryDate         *time.Time `json:"expiryDate" gorm:"index"`
	EndDate            *time.Time `json:"endDate"`
	RenewedFromID      *string    `json:"renewedFromID" gorm:"type:text"`
	NearExpiryNotified bool       `json:"nearExpiryNotified" gorm:"not null;default:false"`
	CreatedAt          time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	RecipientID string    `json:"recipientID" gorm:"type:text;index;not null"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Message     string    `json:"message" gorm:"type:text"`
	ActionURL   *string   `json:"actionURL" gorm:"type:text"`
	IsRead      bool      `json:"isRead" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}
