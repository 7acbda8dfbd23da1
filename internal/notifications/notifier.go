package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

// Notifier writes a notification row inside the caller's transaction. The
// investment workflow and KYC service emit through this so a rolled back
// transition never leaves a stray notification.
type Notifier struct {
	repo Repository
}

// NewNotifier builds the transactional notifier.
func NewNotifier(repo Repository) (*Notifier, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &Notifier{repo: repo}, nil
}

// Notify persists an in-app notification for the user.
func (n *Notifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for notification")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !ntype.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}

	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if err := n.repo.WithTx(tx).Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}
