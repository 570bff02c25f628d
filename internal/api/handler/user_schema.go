package handler

import (
	"time"

	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// Variant fields are only accepted for their own role.
type registerRequest struct {
	Role        string    `json:"role"         validate:"required,oneof=Player Publisher"`
	Name        string    `json:"name"         validate:"required,max=120"`
	Username    string    `json:"username"     validate:"required,min=3,max=40"`
	Email       string    `json:"email"        validate:"required,email"`
	Password    string    `json:"password"     validate:"required,min=8,max=72"`
	BornDate    time.Time `json:"born_date"    validate:"required"`
	GamerTag    string    `json:"gamer_tag"    validate:"excluded_unless=Role Player,max=40"`
	CompanyName string    `json:"company_name" validate:"required_if=Role Publisher,excluded_unless=Role Publisher,max=120"`
	Website     string    `json:"website"      validate:"omitempty,url,excluded_unless=Role Publisher"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string         `json:"token,omitempty"`
	User  *ports.UserDTO `json:"user"`
}

// updateUserRequest: absent fields keep their stored value.
type updateUserRequest struct {
	Name        *string    `json:"name"         validate:"omitempty,min=1,max=120"`
	Username    *string    `json:"username"     validate:"omitempty,min=3,max=40"`
	Email       *string    `json:"email"        validate:"omitempty,email"`
	BornDate    *time.Time `json:"born_date"`
	GamerTag    *string    `json:"gamer_tag"    validate:"omitempty,max=40"`
	Library     []string   `json:"library"      validate:"omitempty,dive,required"`
	CompanyName *string    `json:"company_name" validate:"omitempty,min=1,max=120"`
	Website     *string    `json:"website"      validate:"omitempty,url"`
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		Role:        r.Role,
		Name:        r.Name,
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		BornDate:    r.BornDate,
		GamerTag:    r.GamerTag,
		CompanyName: r.CompanyName,
		Website:     r.Website,
	}
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:        r.Name,
		Username:    r.Username,
		Email:       r.Email,
		BornDate:    r.BornDate,
		GamerTag:    r.GamerTag,
		Library:     r.Library,
		CompanyName: r.CompanyName,
		Website:     r.Website,
	}
}
