package cms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yanizio/adeptcms/internal/database"
)

const sideboxColumns = "SELECT id, type, display_name, location, pages, `order` FROM sideboxes"

// Sideboxes returns the sideboxes for location that are enabled on page,
// ordered by `order`.
//
// A sidebox is enabled on a page when its pages field contains the page
// identifier wrapped in double quotes, or the wildcard marker "*" (quotes
// included).  The match is a case-sensitive substring test.  An empty or
// "*" page skips the page filter, and a location outside top, side, and
// bottom skips the location filter.
func (r *Repository) Sideboxes(ctx context.Context, location, page string) (_ []Sidebox, err error) {
	defer track("sideboxes", time.Now(), &err)

	var (
		where []string
		args  []any
	)
	if isLocation(location) {
		where = append(where, "location = ?")
		args = append(args, location)
	}
	if page != "" && page != "*" {
		match := r.containsExpr("pages")
		where = append(where, "("+match+" OR "+match+")")
		args = append(args, `"`+page+`"`, `"*"`)
	}

	q := sideboxColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY `order` ASC"

	out := make([]Sidebox, 0, 8)
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("cms: sideboxes: %w", err)
	}
	return out, nil
}

// containsExpr is a case-sensitive "column contains ?" predicate.  MySQL
// compares with the column collation unless one side is binary; the
// BINARY operator is deprecated as of 8.0.27, so the column is CAST.
func (r *Repository) containsExpr(column string) string {
	if r.dialect == database.DialectSQLite {
		return "INSTR(" + column + ", ?) > 0"
	}
	return "INSTR(CAST(" + column + " AS BINARY), ?) > 0"
}

// Slides returns every image-slider entry ordered by `order`.
func (r *Repository) Slides(ctx context.Context) (_ []Slide, err error) {
	defer track("slides", time.Now(), &err)

	const q = "SELECT id, image, header, body, footer, `order` FROM image_slider ORDER BY `order` ASC"
	out := make([]Slide, 0, 8)
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("cms: slides: %w", err)
	}
	return out, nil
}

// Links returns the menu links of one location ordered by parent, then
// `order`.  Any other location returns every link ordered by `order` only.
func (r *Repository) Links(ctx context.Context, location string) (_ []MenuLink, err error) {
	defer track("links", time.Now(), &err)

	const (
		cols     = "SELECT id, name, link, type, parent_id, `order` FROM menu"
		qByType  = cols + " WHERE type = ? ORDER BY parent_id ASC, `order` ASC"
		qAllRows = cols + " ORDER BY `order` ASC"
	)
	out := make([]MenuLink, 0, 16)
	if isLocation(location) {
		err = r.db.SelectContext(ctx, &out, qByType, location)
	} else {
		err = r.db.SelectContext(ctx, &out, qAllRows)
	}
	if err != nil {
		return nil, fmt.Errorf("cms: links %q: %w", location, err)
	}
	return out, nil
}

const pageColumns = "SELECT id, identifier, name, content, rank_needed FROM pages"

// Page returns the page with the given identifier.
func (r *Repository) Page(ctx context.Context, identifier string) (_ *Page, err error) {
	defer track("page", time.Now(), &err)

	var p Page
	if err := r.get(ctx, &p, pageColumns+" WHERE identifier = ? LIMIT 1", identifier); err != nil {
		return nil, fmt.Errorf("cms: page %q: %w", identifier, err)
	}
	return &p, nil
}

// Pages returns every page in storage order.
func (r *Repository) Pages(ctx context.Context) (_ []Page, err error) {
	defer track("pages", time.Now(), &err)

	out := make([]Page, 0, 16)
	if err := r.db.SelectContext(ctx, &out, pageColumns); err != nil {
		return nil, fmt.Errorf("cms: pages: %w", err)
	}
	return out, nil
}

// AnyOldRank returns the lowest rank id.  Callers use it as a placeholder
// to satisfy the rank foreign key on new rows.
func (r *Repository) AnyOldRank(ctx context.Context) (_ int64, err error) {
	defer track("any_old_rank", time.Now(), &err)

	var id int64
	if err := r.get(ctx, &id, "SELECT id FROM ranks ORDER BY id ASC LIMIT 1"); err != nil {
		return 0, fmt.Errorf("cms: any old rank: %w", err)
	}
	return id, nil
}
