package inbound

import (
	"context"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/router"
)

type uc interface {
	PasswordOtpRequest(ctx context.Context, in usecase.PasswordOtpRequestInput) error
	PasswordOtpVerify(ctx context.Context, in usecase.PasswordOtpVerifyInput) (*usecase.PasswordOtpVerifyOutput, error)
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Password Reset Flow
	r.POST("/request-password-otp", end.RequestPasswordOtp)
	r.POST("/verify-password-otp", end.VerifyPasswordOtp)
	r.POST("/reset-password-with-token", end.ResetPasswordWithToken)
}
