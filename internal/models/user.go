package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleResident Role = "resident"
)

// User represents a registered user. Residents sign up through the flood
// dashboard and carry alerting preferences; operators and admins manage
// vehicle and station data.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	FullName     string             `bson:"full_name" json:"fullName"`
	Email        string             `bson:"email" json:"email"`
	PhoneNumber  string             `bson:"phone_number" json:"phoneNumber"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	AlertMethods []string           `bson:"alert_methods,omitempty" json:"alertMethods,omitempty"` // "sms", "whatsapp", "email"
	Locations    []string           `bson:"locations,omitempty" json:"locations,omitempty"`
	Language     string             `bson:"language,omitempty" json:"language,omitempty"` // "en" or "si"
	IsActive     bool               `bson:"is_active" json:"isActive"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// LoginRequest represents a login request. Either username or phone number
// identifies the account.
type LoginRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username     string   `json:"username"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phoneNumber"`
	Address      string   `json:"address"`
	Password     string   `json:"password"`
	Role         Role     `json:"role"`
	AlertMethods []string `json:"alertMethods"`
	Locations    []string `json:"locations"`
	Language     string   `json:"language"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        Role   `json:"role"`
	Exp         int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleOperator, RoleResident:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user may perform a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleOperator:
		return action != "delete_user" && action != "manage_users"
	case RoleResident:
		return action == "view_stations" || action == "view_water_levels" ||
			action == "view_alerts" || action == "view_weather" ||
			action == "view_recommendations"
	default:
		return false
	}
}
