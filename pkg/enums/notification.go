package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeInvestmentUpdate NotificationType = "investment_update"
	NotificationTypeKYCUpdate        NotificationType = "kyc_update"
	NotificationTypeWalletUpdate     NotificationType = "wallet_update"
	NotificationTypeCommission       NotificationType = "commission"
	NotificationTypeAnnouncement     NotificationType = "announcement"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeInvestmentUpdate,
	NotificationTypeKYCUpdate,
	NotificationTypeWalletUpdate,
	NotificationTypeCommission,
	NotificationTypeAnnouncement,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
