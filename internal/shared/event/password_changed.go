package event

const PasswordChangedDestination string = "password_changed"
const PasswordChangedConsumerNotification string = "password_changed_notification"

type PasswordChangedMessage struct {
	EventID string `json:"event_id"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
}
