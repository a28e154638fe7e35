package models

import s "campushub/pkg/string"

// LoginRequest carries the credential check inputs.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Normalize trims whitespace from fields that tolerate it. The password is
// left untouched so hashes match exactly what the user typed.
func (r *LoginRequest) Normalize() {
	s.TrimStrings(&r.Email)
}

// VerifyCodeRequest carries a one-time-code verification attempt.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (r *VerifyCodeRequest) Normalize() {
	s.TrimStrings(&r.Email, &r.Code)
}

// ResendCodeRequest asks for a fresh one-time code for a pending challenge.
type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *ResendCodeRequest) Normalize() {
	s.TrimStrings(&r.Email)
}
