package inbound

import (
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the password reset flow.
type HTTPEndpoint struct {
	uc uc
}

// RequestPasswordOtp starts the reset flow by emailing a one-time code.
//
// The response is identical whether or not the email has an account.
func (h *HTTPEndpoint) RequestPasswordOtp(r *router.Request) (any, error) {
	var req RequestPasswordOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordOtpRequest(r.Context(), usecase.PasswordOtpRequestInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return RequestPasswordOtpResponse{
		Success: true,
		Message: "If the email exists, an OTP has been sent",
	}, nil
}

// VerifyPasswordOtp checks the submitted code and returns a short-lived reset token.
func (h *HTTPEndpoint) VerifyPasswordOtp(r *router.Request) (any, error) {
	var req VerifyPasswordOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PasswordOtpVerify(r.Context(), usecase.PasswordOtpVerifyInput{
		Email: req.Email,
		Otp:   req.Otp,
	})
	if err != nil {
		return nil, err
	}

	return VerifyPasswordOtpResponse{
		Success:    true,
		ResetToken: resp.ResetToken,
		ExpiresAt:  resp.ExpiresAt,
		Message:    "OTP verified successfully",
	}, nil
}

// ResetPasswordWithToken redeems a reset token and stores the new password.
func (h *HTTPEndpoint) ResetPasswordWithToken(r *router.Request) (any, error) {
	var req ResetPasswordWithTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		ResetToken:  req.ResetToken,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordWithTokenResponse{
		Success:       true,
		Message:       "Password has been reset successfully",
		EmailVerified: true,
	}, nil
}
