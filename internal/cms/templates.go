package cms

import (
	"context"
	"fmt"
	"time"
)

// Template returns email template id.
func (r *Repository) Template(ctx context.Context, id int64) (_ *EmailTemplate, err error) {
	defer track("template", time.Now(), &err)

	const q = "SELECT id, template_name, subject, body FROM email_templates WHERE id = ? LIMIT 1"
	var tpl EmailTemplate
	if err := r.get(ctx, &tpl, q, id); err != nil {
		return nil, fmt.Errorf("cms: email template %d: %w", id, err)
	}
	return &tpl, nil
}
