package config

// EmailConfig defines SMTP delivery settings. Email notifications are
// enabled when SMTPHost is non-empty.
type EmailConfig struct {
	SMTPHost    string   `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort    int      `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	Username    string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password    string   `json:"password,omitempty" yaml:"password,omitempty"`
	FromAddress string   `json:"from_address,omitempty" yaml:"from_address,omitempty" validate:"omitempty,email"`
	ToAddresses []string `json:"to_addresses,omitempty" yaml:"to_addresses,omitempty" validate:"omitempty,dive,email"`
}

// NotificationConfig defines configuration for change notifications
type NotificationConfig struct {
	WebhookURL string      `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" validate:"omitempty,url"`
	Email      EmailConfig `json:"email,omitempty" yaml:"email,omitempty"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		WebhookURL: "",
		Email:      EmailConfig{SMTPPort: 465},
	}
}
