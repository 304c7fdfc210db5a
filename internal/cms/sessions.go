package cms

import (
	"context"
	"fmt"
	"time"
)

// Sessions returns the persisted sessions opened from ip with userAgent.
// The pair is not unique; callers usually only test len > 0.
func (r *Repository) Sessions(ctx context.Context, ip, userAgent string) (_ []SessionRecord, err error) {
	defer track("sessions", time.Now(), &err)

	const q = "SELECT id, ip_address, user_agent, `timestamp` FROM ci_sessions WHERE ip_address = ? AND user_agent = ?"
	out := make([]SessionRecord, 0, 2)
	if err := r.db.SelectContext(ctx, &out, q, ip, userAgent); err != nil {
		return nil, fmt.Errorf("cms: sessions for %s: %w", ip, err)
	}
	return out, nil
}
