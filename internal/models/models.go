package models

import "time"

// User represents a registered account
type User struct {
	ID           string     `json:"id"`
	Mobile       string     `json:"mobile"`
	MobileKey    string     `json:"-"`
	FullName     string     `json:"full_name"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	PasswordHash string     `json:"-"`
	PushToken    *string    `json:"push_token,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Household groups family member rows under one head
type Household struct {
	ID           string          `json:"id"`
	HeadName     string          `json:"head_name"`
	SubSurname   string          `json:"sub_surname"`
	Village      string          `json:"village"`
	District     string          `json:"district"`
	MobileNumber string          `json:"mobile_number"`
	MobileKey    string          `json:"-"`
	CreatedBy    string          `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
	Members      []*FamilyMember `json:"members"`
}

// FamilyMember is one person in a household
type FamilyMember struct {
	ID           string    `json:"id"`
	HouseholdID  string    `json:"household_id"`
	MemberName   string    `json:"member_name"`
	Relationship string    `json:"relationship"`
	MemberMobile string    `json:"member_mobile"`
	MobileKey    string    `json:"-"`
	CreatedBy    string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notification types
const (
	NotificationTypeSuccess = "success"
	NotificationTypeInfo    = "info"
)

// Notification is an in-app notice addressed to one user
type Notification struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	RelatedUserID *string   `json:"related_user_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
