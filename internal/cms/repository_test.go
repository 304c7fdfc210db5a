// internal/cms/repository_test.go
//
// Unit tests for the content repository using sqlmock (MySQL dialect).
//
// Run: go test ./internal/cms -v

package cms

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/adeptcms/internal/database"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unmet SQL expectations")
		db.Close()
	})
	return New(sqlx.NewDb(db, "mysql"), database.DialectMySQL), mock
}

var sideboxCols = []string{"id", "type", "display_name", "location", "pages", "order"}

func TestSideboxes_LocationAndPage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM sideboxes WHERE location = ? AND (INSTR(CAST(pages AS BINARY), ?) > 0 OR INSTR(CAST(pages AS BINARY), ?) > 0) ORDER BY `order` ASC",
	)).
		WithArgs("side", `"home"`, `"*"`).
		WillReturnRows(sqlmock.NewRows(sideboxCols).
			AddRow(2, "custom", "Everywhere", "side", `["*"]`, 1).
			AddRow(1, "custom", "Home box", "side", `["home"]`, 2))

	got, err := repo.Sideboxes(context.Background(), LocationSide, "home")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "Home box", got[1].DisplayName)
}

func TestSideboxes_NoFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("^" + regexp.QuoteMeta(
		"SELECT id, type, display_name, location, pages, `order` FROM sideboxes ORDER BY `order` ASC",
	) + "$").
		WithArgs().
		WillReturnRows(sqlmock.NewRows(sideboxCols))

	got, err := repo.Sideboxes(context.Background(), "*", "*")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSideboxes_PageOnly(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM sideboxes WHERE (INSTR(CAST(pages AS BINARY), ?) > 0 OR INSTR(CAST(pages AS BINARY), ?) > 0) ORDER BY",
	)).
		WithArgs(`"news"`, `"*"`).
		WillReturnRows(sqlmock.NewRows(sideboxCols))

	_, err := repo.Sideboxes(context.Background(), "", "news")
	require.NoError(t, err)
}

func TestSlides(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM image_slider ORDER BY `order` ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "image", "header", "body", "footer", "order"}).
			AddRow(1, "a.jpg", "A", "", "", 0).
			AddRow(2, "b.jpg", "B", "", "", 1))

	got, err := repo.Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b.jpg", got[1].Image)
}

var menuCols = []string{"id", "name", "link", "type", "parent_id", "order"}

func TestLinks_ByType(t *testing.T) {
	for _, typ := range []string{LocationTop, LocationSide, LocationBottom} {
		t.Run(typ, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(
				"FROM menu WHERE type = ? ORDER BY parent_id ASC, `order` ASC",
			)).
				WithArgs(typ).
				WillReturnRows(sqlmock.NewRows(menuCols).AddRow(1, "Home", "/", typ, 0, 0))

			got, err := repo.Links(context.Background(), typ)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, typ, got[0].Type)
		})
	}
}

func TestLinks_UnknownTypeReturnsAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM menu ORDER BY `order` ASC") + "$").
		WithArgs().
		WillReturnRows(sqlmock.NewRows(menuCols).
			AddRow(1, "Home", "/", "top", 0, 0).
			AddRow(2, "Forum", "/forum", "side", 0, 1))

	got, err := repo.Links(context.Background(), "footer")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

var pageCols = []string{"id", "identifier", "name", "content", "rank_needed"}

func TestPage_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pages WHERE identifier = ? LIMIT 1")).
		WithArgs("home").
		WillReturnRows(sqlmock.NewRows(pageCols).AddRow(1, "home", "Home", "<p>hi</p>", 0))

	got, err := repo.Page(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", got.Identifier)
	assert.Equal(t, "<p>hi</p>", got.Content)
}

func TestPage_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pages WHERE identifier = ?")).
		WithArgs("nonexistent").
		WillReturnRows(sqlmock.NewRows(pageCols))

	got, err := repo.Page(context.Background(), "nonexistent")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPage_DriverError(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("FROM pages WHERE identifier = ?")).
		WithArgs("home").
		WillReturnError(boom)

	_, err := repo.Page(context.Background(), "home")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPages(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, identifier, name, content, rank_needed FROM pages") + "$").
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(1, "home", "Home", "", 0).
			AddRow(2, "rules", "Rules", "", 3))

	got, err := repo.Pages(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAnyOldRank(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := regexp.QuoteMeta("SELECT id FROM ranks ORDER BY id ASC LIMIT 1")
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id, err := repo.AnyOldRank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = repo.AnyOldRank(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

var realmCols = []string{"id", "realm_name", "hostname", "realm_port", "char_database",
	"world_database", "cap", "emulator"}

func TestRealms(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM realms") + "$").
		WillReturnRows(sqlmock.NewRows(realmCols).
			AddRow(1, "Azeroth", "127.0.0.1", 8085, "chars", "world", 100, "trinity"))

	got, err := repo.Realms(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Azeroth", got[0].Name)
}

func TestRealm(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := regexp.QuoteMeta("FROM realms WHERE id = ? LIMIT 1")
	mock.ExpectQuery(q).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(realmCols).
			AddRow(1, "Azeroth", "127.0.0.1", 8085, "chars", "world", 100, "trinity"))
	mock.ExpectQuery(q).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(realmCols))

	got, err := repo.Realm(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8085, got.Port)

	_, err = repo.Realm(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackups(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, backup_name, created_date FROM backup ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backup_name", "created_date"}).
			AddRow(1, "a.sql.gz", 100).
			AddRow(3, "b.sql.gz", 200))

	got, err := repo.Backups(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestBackupName(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := regexp.QuoteMeta("SELECT backup_name FROM backup WHERE id = ?")
	mock.ExpectQuery(q).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"backup_name"}).AddRow("b.sql.gz"))
	mock.ExpectQuery(q).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"backup_name"}))

	name, err := repo.BackupName(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "b.sql.gz", name)

	_, err = repo.BackupName(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(id) FROM backup")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(id)"}).AddRow(0))

	n, err := repo.BackupCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteBackup(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM backup WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteBackup(context.Background(), 3))
}

func TestTemplate(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := regexp.QuoteMeta("FROM email_templates WHERE id = ? LIMIT 1")
	cols := []string{"id", "template_name", "subject", "body"}
	mock.ExpectQuery(q).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "password_reset", "Reset", "Hi {username}"))
	mock.ExpectQuery(q).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(cols))

	tpl, err := repo.Template(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "password_reset", tpl.Name)

	_, err = repo.Template(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifications(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE uid = ?") + "$").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "type", "title", "content", "read", "time"}).
			AddRow(1, 7, "vote", "Thanks", "", true, 10).
			AddRow(2, 7, "news", "Hello", "", false, 20))

	got, err := repo.Notifications(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Read)
	assert.False(t, got[1].Read)
}

func TestUnreadNotificationCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE uid = ? AND `read` = 0")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(4))

	n, err := repo.UnreadNotificationCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestMarkNotificationRead(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET `read` = 1 WHERE id = ? AND uid = ?")).
		WithArgs(int64(5), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkNotificationRead(context.Background(), 5, 7))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET `read` = 1 WHERE uid = ?") + "$").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.MarkAllNotificationsRead(context.Background(), 7))
}

func TestMessagesCount(t *testing.T) {
	repo, _ := newMockRepo(t)
	assert.Zero(t, repo.MessagesCount())
}

func TestSessions(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM ci_sessions WHERE ip_address = ? AND user_agent = ?")).
		WithArgs("203.0.113.7", "curl/8").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ip_address", "user_agent", "timestamp"}).
			AddRow("abc", "203.0.113.7", "curl/8", 1))

	got, err := repo.Sessions(context.Background(), "203.0.113.7", "curl/8")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLogVisit_MySQLUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO visitor_log (`date`, ip, `timestamp`) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE",
	)).
		WithArgs("2026-10-15", "203.0.113.7", int64(1792022400)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.LogVisit(context.Background(), Visit{
		Date:      "2026-10-15",
		IP:        "203.0.113.7",
		Timestamp: 1792022400,
	})
	require.NoError(t, err)
}

func TestSetUserLanguage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE account_data SET language = ? WHERE id = ?")).
		WithArgs("german", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetUserLanguage(context.Background(), 7, "german"))
}
