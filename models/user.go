// models/user.go
package models

import "time"

const (
	RoleAdmin   = "Admin"
	RoleLearner = "Learner"
)

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLearner
}

// User is a platform account. Admins and learners share one collection and differ by Role.
type User struct {
	ID         string     `bson:"id" json:"id"`
	FirstName  string     `bson:"firstName" json:"firstName"`
	LastName   string     `bson:"lastName" json:"lastName"`
	Email      string     `bson:"email" json:"email"`
	Password   string     `bson:"password" json:"-"`
	Role       string     `bson:"role" json:"role"`
	Contact    string     `bson:"contact,omitempty" json:"contact,omitempty"`
	Location   string     `bson:"location,omitempty" json:"location,omitempty"`
	IsVerified bool       `bson:"isVerified" json:"isVerified"`
	Disabled   bool       `bson:"disabled" json:"disabled"`
	FCMToken   string     `bson:"fcmToken,omitempty" json:"-"`
	LastLogin  *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsLearner reports whether the account may be billed.
func (u *User) IsLearner() bool {
	return u != nil && u.Role == RoleLearner
}

// UserSummary is the user shape embedded in other responses.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Contact   string `json:"contact,omitempty"`
}

// Summary drops everything but the public identity fields.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Contact:   u.Contact,
	}
}

// UserRegistrationData is the signup payload.
type UserRegistrationData struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Contact   string `json:"contact"`
}

// VerifyEmailRequest carries the OTP sent on signup.
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"verificationToken" binding:"required"`
}

// EmailRequest is used by resend-token.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
