package inbound

import "time"

type RequestPasswordOtpRequest struct {
	Email string `json:"email"`
}

type RequestPasswordOtpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyPasswordOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type VerifyPasswordOtpResponse struct {
	Success    bool      `json:"success"`
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Message    string    `json:"message"`
}

type ResetPasswordWithTokenRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordWithTokenResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	EmailVerified bool   `json:"email_verified"`
}
