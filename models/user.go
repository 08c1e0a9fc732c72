package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privilege levels. Lower is more privileged.
const (
	LevelAdmin  = 1
	LevelSeller = 2
	LevelBuyer  = 3
)

// RoleForLevel maps a privilege level to the role name carried in tokens.
func RoleForLevel(level int) string {
	switch level {
	case LevelAdmin:
		return "admin"
	case LevelSeller:
		return "seller"
	default:
		return "buyer"
	}
}

type User struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Mobile               string             `json:"mobile,omitempty" bson:"mobile,omitempty"`
	Password             string             `json:"-" bson:"password"`
	UserLevel            int                `json:"userLevel" bson:"userLevel"`
	LoginAttempts        int                `json:"-" bson:"loginAttempts"`
	LastLoginAttempt     *time.Time         `json:"-" bson:"lastLoginAttempt,omitempty"`
	ResetPasswordToken   string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `json:"-" bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Mobile   string `json:"mobile" binding:"omitempty,max=20"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Mobile *string `json:"mobile" binding:"omitempty,max=20"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
