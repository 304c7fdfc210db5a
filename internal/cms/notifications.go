package cms

import (
	"context"
	"fmt"
	"time"
)

// Notifications returns every notification for uid, read or not.
func (r *Repository) Notifications(ctx context.Context, uid int64) (_ []Notification, err error) {
	defer track("notifications", time.Now(), &err)

	const q = "SELECT id, uid, type, title, content, `read`, time FROM notifications WHERE uid = ?"
	out := make([]Notification, 0, 8)
	if err := r.db.SelectContext(ctx, &out, q, uid); err != nil {
		return nil, fmt.Errorf("cms: notifications for %d: %w", uid, err)
	}
	return out, nil
}

// UnreadNotificationCount returns how many notifications for uid have
// read = 0.
func (r *Repository) UnreadNotificationCount(ctx context.Context, uid int64) (_ int64, err error) {
	defer track("unread_notifications", time.Now(), &err)

	const q = "SELECT COUNT(*) FROM notifications WHERE uid = ? AND `read` = 0"
	var n int64
	if err := r.db.GetContext(ctx, &n, q, uid); err != nil {
		return 0, fmt.Errorf("cms: unread notifications for %d: %w", uid, err)
	}
	return n, nil
}

// MarkNotificationRead sets read = 1 on notification id, only when it
// belongs to uid.
func (r *Repository) MarkNotificationRead(ctx context.Context, id, uid int64) (err error) {
	defer track("mark_notification_read", time.Now(), &err)

	const q = "UPDATE notifications SET `read` = 1 WHERE id = ? AND uid = ?"
	if _, err := r.db.ExecContext(ctx, q, id, uid); err != nil {
		return fmt.Errorf("cms: mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead sets read = 1 on every notification for uid.
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, uid int64) (err error) {
	defer track("mark_all_notifications_read", time.Now(), &err)

	const q = "UPDATE notifications SET `read` = 1 WHERE uid = ?"
	if _, err := r.db.ExecContext(ctx, q, uid); err != nil {
		return fmt.Errorf("cms: mark notifications read for %d: %w", uid, err)
	}
	return nil
}

// MessagesCount is the unread private-message count shown next to the
// notification badge.  Private messaging has no table yet, so it is
// always zero.
func (r *Repository) MessagesCount() int { return 0 }
