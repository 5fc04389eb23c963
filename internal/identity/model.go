package identity

import "time"

// AdminUser is a back-office account. The password hash never leaves the
// server: it is excluded from every JSON rendering.
type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Client is a customer account with access to the order portal.
type Client struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Company      *string    `json:"company,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ClientLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ClientRegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
}

type AdminAuthResponse struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

type ClientAuthResponse struct {
	Token  string `json:"token"`
	Client Client `json:"client"`
}
