package cms

import (
	"context"
	"fmt"
	"time"
)

const realmColumns = `SELECT id, realm_name, hostname, realm_port, char_database,
       world_database, cap, emulator
FROM   realms`

// Realms returns every configured realm in storage order.
func (r *Repository) Realms(ctx context.Context) (_ []Realm, err error) {
	defer track("realms", time.Now(), &err)

	out := make([]Realm, 0, 4)
	if err := r.db.SelectContext(ctx, &out, realmColumns); err != nil {
		return nil, fmt.Errorf("cms: realms: %w", err)
	}
	return out, nil
}

// Realm returns one realm by id.
func (r *Repository) Realm(ctx context.Context, id int64) (_ *Realm, err error) {
	defer track("realm", time.Now(), &err)

	var rec Realm
	if err := r.get(ctx, &rec, realmColumns+" WHERE id = ? LIMIT 1", id); err != nil {
		return nil, fmt.Errorf("cms: realm %d: %w", id, err)
	}
	return &rec, nil
}
