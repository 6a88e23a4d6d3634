package event

const PasswordOtpRequestedDestination string = "password_otp_requested"
const PasswordOtpRequestedConsumerNotification string = "password_otp_requested_notification"

type PasswordOtpRequestedMessage struct {
	EventID          string `json:"event_id"`
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	Otp              string `json:"otp"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}
