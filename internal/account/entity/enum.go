package entity

// OtpPurpose scopes an OTP to a single flow so codes issued for one purpose
// can never be redeemed in another.
type OtpPurpose string

const (
	OtpPurposePasswordReset OtpPurpose = "password_reset"
)

func (p OtpPurpose) String() string {
	return string(p)
}
