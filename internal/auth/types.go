package auth

import "time"

// Institute is an issuing account. Certificates reference institutes by
// InstituteID but are owned by the certificate store.
type Institute struct {
	InstituteID      string    `json:"instituteId"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Organization     string    `json:"organization"`
	PasswordHash     string    `json:"-"`
	Address          string    `json:"address,omitempty"`
	Website          string    `json:"website,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	IsVerified       bool      `json:"isVerified"`
	IsActive         bool      `json:"isActive"`
	CertificateCount int64     `json:"certificateCount"`
	CreatedAt        time.Time `json:"createdAt"`
	LastLogin        time.Time `json:"lastLogin"`
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Organization string
	Address      string
	Website      string
	Phone        string
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	Name         *string
	Organization *string
	Address      *string
	Website      *string
	Phone        *string
}
