package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus is the state of a seller application. Approved and rejected are terminal.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further decision can be made.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type PersonalInfo struct {
	FullName    string `json:"fullName" bson:"fullName" binding:"required,max=100"`
	Email       string `json:"email" bson:"email" binding:"required,email"`
	Mobile      string `json:"mobile" bson:"mobile" binding:"required,max=20"`
	DateOfBirth string `json:"dob" bson:"dob" binding:"required"`
}

type BusinessInfo struct {
	BusinessName       string `json:"businessName" bson:"businessName" binding:"required,max=150"`
	BusinessType       string `json:"businessType" bson:"businessType" binding:"required,max=50"`
	RegistrationNumber string `json:"registrationNumber" bson:"registrationNumber" binding:"required,max=50"`
	TaxID              string `json:"taxId" bson:"taxId" binding:"required,max=50"`
	BusinessAddress    string `json:"businessAddress" bson:"businessAddress" binding:"required,max=300"`
	ContactNumber      string `json:"contactNumber" bson:"contactNumber" binding:"required,max=20"`
	BusinessEmail      string `json:"businessEmail" bson:"businessEmail" binding:"required,email"`
}

type SellerApplication struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PersonalInfo PersonalInfo       `json:"personalInfo" bson:"personalInfo"`
	BusinessInfo BusinessInfo       `json:"businessInfo" bson:"businessInfo"`
	Status       ApplicationStatus  `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SellerApplicationRequest struct {
	PersonalInfo PersonalInfo `json:"personalInfo" binding:"required"`
	BusinessInfo BusinessInfo `json:"businessInfo" binding:"required"`
}

type SellerDecisionRequest struct {
	Email  string            `json:"email" binding:"required,email"`
	Status ApplicationStatus `json:"status" binding:"required"`
}
