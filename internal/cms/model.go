// internal/cms/model.go
//
// Row models for the content tables.
//
// Context
// -------
// Each struct mirrors the columns the repository selects from one table.
// They carry `db` tags for sqlx scans and `json` tags for the API
// components, and contain no behaviour.
//
// Schema reference: internal/database/migrations/<dialect>/00001_*.sql
//
// Notes
// -----
// • Timestamps are stored as Unix seconds (INT), matching the legacy
//   schema, so they map to int64 rather than time.Time.
// • `order` and `read` are reserved words; queries backtick them.
package cms

// Sidebox is one block rendered in a page region.  Pages holds the raw
// tag list, e.g. `["home","news"]` or `["*"]`.
type Sidebox struct {
	ID          int64  `db:"id"           json:"id"`
	Type        string `db:"type"         json:"type"`
	DisplayName string `db:"display_name" json:"displayName"`
	Location    string `db:"location"     json:"location"`
	Pages       string `db:"pages"        json:"pages"`
	Order       int    `db:"order"        json:"order"`
}

// Slide is one image-slider entry.
type Slide struct {
	ID     int64  `db:"id"     json:"id"`
	Image  string `db:"image"  json:"image"`
	Header string `db:"header" json:"header"`
	Body   string `db:"body"   json:"body"`
	Footer string `db:"footer" json:"footer"`
	Order  int    `db:"order"  json:"order"`
}

// MenuLink is one navigation entry.  ParentID 0 marks a root link.
type MenuLink struct {
	ID       int64  `db:"id"        json:"id"`
	Name     string `db:"name"      json:"name"`
	Link     string `db:"link"      json:"link"`
	Type     string `db:"type"      json:"type"`
	ParentID int64  `db:"parent_id" json:"parentId"`
	Order    int    `db:"order"     json:"order"`
}

// Page is a custom content page addressed by Identifier.
type Page struct {
	ID         int64  `db:"id"          json:"id"`
	Identifier string `db:"identifier"  json:"identifier"`
	Name       string `db:"name"        json:"name"`
	Content    string `db:"content"     json:"content"`
	RankNeeded int64  `db:"rank_needed" json:"rankNeeded"`
}

// Realm is one configured game realm.
type Realm struct {
	ID            int64  `db:"id"             json:"id"`
	Name          string `db:"realm_name"     json:"name"`
	Hostname      string `db:"hostname"       json:"hostname"`
	Port          int    `db:"realm_port"     json:"port"`
	CharDatabase  string `db:"char_database"  json:"-"`
	WorldDatabase string `db:"world_database" json:"-"`
	Cap           int    `db:"cap"            json:"cap"`
	Emulator      string `db:"emulator"       json:"emulator"`
}

// Backup is one database backup archive.
type Backup struct {
	ID          int64  `db:"id"           json:"id"`
	Name        string `db:"backup_name"  json:"name"`
	CreatedDate int64  `db:"created_date" json:"createdDate"`
}

// EmailTemplate is one outbound mail template.
type EmailTemplate struct {
	ID      int64  `db:"id"            json:"id"`
	Name    string `db:"template_name" json:"name"`
	Subject string `db:"subject"       json:"subject"`
	Body    string `db:"body"          json:"body"`
}

// Notification is one user-facing notice.
type Notification struct {
	ID      int64  `db:"id"      json:"id"`
	UID     int64  `db:"uid"     json:"uid"`
	Type    string `db:"type"    json:"type"`
	Title   string `db:"title"   json:"title"`
	Content string `db:"content" json:"content"`
	Read    bool   `db:"read"    json:"read"`
	Time    int64  `db:"time"    json:"time"`
}

// SessionRecord is one persisted browser session.
type SessionRecord struct {
	ID        string `db:"id"         json:"id"`
	IPAddress string `db:"ip_address" json:"ipAddress"`
	UserAgent string `db:"user_agent" json:"userAgent"`
	Timestamp int64  `db:"timestamp"  json:"timestamp"`
}

// Visit is one visitor-log hit.  Date is YYYY-MM-DD.
type Visit struct {
	Date      string
	IP        string
	Timestamp int64
}
