package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/metastable-void/alarkhabil-server/internal/model"
	"github.com/metastable-void/alarkhabil-server/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite permits a single writer; funnel all access through one
	// connection so concurrent transactions queue instead of failing
	// with a busy error.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS author (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT NOT NULL,
	name TEXT NOT NULL,
	registered_date INTEGER NOT NULL,
	description_text TEXT NOT NULL DEFAULT '',
	is_deleted INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_author_uuid ON author(uuid);

CREATE TABLE IF NOT EXISTS author_public_key (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	author_id INTEGER NOT NULL,
	algo TEXT NOT NULL,
	public_key BLOB NOT NULL,
	FOREIGN KEY(author_id) REFERENCES author(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_author_public_key_key ON author_public_key(public_key);

CREATE TABLE IF NOT EXISTS channel (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT NOT NULL,
	handle TEXT NOT NULL,
	name TEXT NOT NULL,
	created_date INTEGER NOT NULL,
	language_code TEXT NOT NULL,
	description_text TEXT NOT NULL DEFAULT '',
	is_deleted INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_channel_uuid ON channel(uuid);
CREATE UNIQUE INDEX IF NOT EXISTS idx_channel_handle ON channel(handle);

CREATE TABLE IF NOT EXISTS channel_author (
	channel_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	FOREIGN KEY(channel_id) REFERENCES channel(id),
	FOREIGN KEY(author_id) REFERENCES author(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_channel_author_unique ON channel_author(channel_id, author_id);

CREATE TABLE IF NOT EXISTS post (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT NOT NULL,
	channel_id INTEGER NOT NULL,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(channel_id) REFERENCES channel(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_post_uuid ON post(uuid);

CREATE TABLE IF NOT EXISTS post_tag (
	post_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	FOREIGN KEY(post_id) REFERENCES post(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_post_tag_unique ON post_tag(post_id, name);

CREATE TABLE IF NOT EXISTS revision (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT NOT NULL,
	post_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	created_date INTEGER NOT NULL,
	title TEXT NOT NULL,
	revision_text TEXT NOT NULL,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(post_id) REFERENCES post(id),
	FOREIGN KEY(author_id) REFERENCES author(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_revision_uuid ON revision(uuid);
CREATE INDEX IF NOT EXISTS idx_revision_post_date ON revision(post_id, created_date DESC);

CREATE TABLE IF NOT EXISTS meta_page (
	page_name TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	page_text TEXT NOT NULL,
	updated_date INTEGER NOT NULL
);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

// latestRevision selects the newest surviving revision of a post.
const latestRevision = `revision.id = (
	SELECT r2.id FROM revision r2
	WHERE r2.post_id = post.id AND r2.is_deleted = 0
	ORDER BY r2.created_date DESC, r2.id DESC
	LIMIT 1
)`

func (s *Store) CreateAuthor(ctx context.Context, uuid, name string, registeredDate int64, keyAlgo string, publicKey []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM author WHERE uuid = ?`, uuid).Scan(&existing)
	if err == nil {
		err = store.ErrAccountExists
		return err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO author (uuid, name, registered_date)
VALUES (?, ?, ?)
`, uuid, name, registeredDate)
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrAccountExists
		}
		return err
	}
	authorID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO author_public_key (author_id, algo, public_key)
VALUES (?, ?, ?)
`, authorID, keyAlgo, publicKey)
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrDuplicateKey
		}
		return err
	}
	err = tx.Commit()
	return err
}

func (s *Store) FindAuthorByPublicKey(ctx context.Context, publicKey []byte) (model.Author, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT author.id, author.uuid, author.name, author.registered_date, author.description_text
FROM author, author_public_key
WHERE author_public_key.public_key = ?
	AND author.is_deleted = 0
	AND author.id = author_public_key.author_id
`, publicKey)
	var a model.Author
	if err := row.Scan(&a.ID, &a.UUID, &a.Name, &a.RegisteredDate, &a.DescriptionText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, store.ErrNotFound
		}
		return model.Author{}, err
	}
	return a, nil
}

func (s *Store) GetAuthorByUUID(ctx context.Context, uuid string) (model.Author, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, uuid, name, registered_date, description_text
FROM author
WHERE is_deleted = 0 AND uuid = ?
`, uuid)
	var a model.Author
	if err := row.Scan(&a.ID, &a.UUID, &a.Name, &a.RegisteredDate, &a.DescriptionText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, store.ErrNotFound
		}
		return model.Author{}, err
	}
	return a, nil
}

func (s *Store) ListAuthors(ctx context.Context) ([]model.AuthorSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT uuid, name FROM author
WHERE is_deleted = 0
ORDER BY registered_date DESC
LIMIT 1000
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []model.AuthorSummary
	for rows.Next() {
		var a model.AuthorSummary
		if err := rows.Scan(&a.UUID, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) UpdateAuthorProfile(ctx context.Context, authorID int64, name, descriptionText string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE author SET name = ?, description_text = ? WHERE id = ? AND is_deleted = 0
`, name, descriptionText, authorID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteAuthor(ctx context.Context, authorID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE author SET is_deleted = 1 WHERE id = ?`, authorID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteAuthorByUUID(ctx context.Context, uuid string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE author SET is_deleted = 1 WHERE uuid = ?`, uuid)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ReplacePublicKey(ctx context.Context, oldKey []byte, newAlgo string, newKey []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var keyID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM author_public_key WHERE public_key = ?`, oldKey).Scan(&keyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = store.ErrNotFound
		}
		return err
	}
	_, err = tx.ExecContext(ctx, `
UPDATE author_public_key SET algo = ?, public_key = ? WHERE id = ?
`, newAlgo, newKey, keyID)
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrDuplicateKey
		}
		return err
	}
	err = tx.Commit()
	return err
}

func (s *Store) CountAuthors(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM author WHERE is_deleted = 0`).Scan(&count)
	return count, err
}

func (s *Store) CreateChannel(ctx context.Context, uuid, handle, name string, createdDate int64, languageCode string, ownerAuthorID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
INSERT INTO channel (uuid, handle, name, created_date, language_code)
VALUES (?, ?, ?, ?, ?)
`, uuid, handle, name, createdDate, languageCode)
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrDuplicateHandle
		}
		return err
	}
	channelID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO channel_author (channel_id, author_id)
VALUES (?, ?)
`, channelID, ownerAuthorID)
	if err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

func (s *Store) GetChannelByUUID(ctx context.Context, uuid string) (model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, uuid, handle, name, created_date, language_code, description_text
FROM channel
WHERE is_deleted = 0 AND uuid = ?
`, uuid)
	return scanChannel(row)
}

func (s *Store) GetChannelByHandle(ctx context.Context, handle string) (model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, uuid, handle, name, created_date, language_code, description_text
FROM channel
WHERE is_deleted = 0 AND handle = ?
`, handle)
	return scanChannel(row)
}

func (s *Store) GetChannelForAuthor(ctx context.Context, channelUUID string, authorID int64) (model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT channel.id, channel.uuid, channel.handle, channel.name, channel.created_date, channel.language_code, channel.description_text
FROM channel, channel_author
WHERE channel.uuid = ?
	AND channel.is_deleted = 0
	AND channel.id = channel_author.channel_id
	AND channel_author.author_id = ?
`, channelUUID, authorID)
	return scanChannel(row)
}

func (s *Store) UpdateChannel(ctx context.Context, channelID int64, handle, name, languageCode, descriptionText string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE channel SET handle = ?, name = ?, language_code = ?, description_text = ?
WHERE id = ? AND is_deleted = 0
`, handle, name, languageCode, descriptionText, channelID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateHandle
		}
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteChannel(ctx context.Context, channelID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE channel SET is_deleted = 1 WHERE id = ?`, channelID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListChannels(ctx context.Context) ([]model.ChannelSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT uuid, handle, name, language_code FROM channel
WHERE is_deleted = 0
ORDER BY created_date DESC
LIMIT 1000
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChannelSummaries(rows)
}

func (s *Store) ListChannelsByAuthor(ctx context.Context, authorUUID string) ([]model.ChannelSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT channel.uuid, channel.handle, channel.name, channel.language_code
FROM channel, channel_author, author
WHERE channel.is_deleted = 0
	AND channel.id = channel_author.channel_id
	AND channel_author.author_id = author.id
	AND author.is_deleted = 0
	AND author.uuid = ?
ORDER BY channel.created_date DESC
LIMIT 1000
`, authorUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChannelSummaries(rows)
}

func (s *Store) ListChannelAuthors(ctx context.Context, channelUUID string) ([]model.AuthorSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT author.uuid, author.name
FROM channel, channel_author, author
WHERE channel.is_deleted = 0
	AND channel.id = channel_author.channel_id
	AND channel_author.author_id = author.id
	AND author.is_deleted = 0
	AND channel.uuid = ?
ORDER BY author.registered_date DESC
LIMIT 1000
`, channelUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []model.AuthorSummary
	for rows.Next() {
		var a model.AuthorSummary
		if err := rows.Scan(&a.UUID, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) CreatePost(ctx context.Context, p store.NewPost) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
INSERT INTO post (uuid, channel_id)
VALUES (?, ?)
`, p.PostUUID, p.ChannelID)
	if err != nil {
		return err
	}
	postID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, tag := range p.Tags {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO post_tag (post_id, name) VALUES (?, ?)
`, postID, tag); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO revision (uuid, post_id, author_id, created_date, title, revision_text)
VALUES (?, ?, ?, ?, ?, ?)
`, p.RevisionUUID, postID, p.AuthorID, p.CreatedDate, p.Title, p.Text)
	if err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

func (s *Store) AddRevision(ctx context.Context, r store.NewRevision) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM post_tag WHERE post_id = ?`, r.PostID); err != nil {
		return err
	}
	for _, tag := range r.Tags {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO post_tag (post_id, name) VALUES (?, ?)
`, r.PostID, tag); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO revision (uuid, post_id, author_id, created_date, title, revision_text)
VALUES (?, ?, ?, ?, ?, ?)
`, r.RevisionUUID, r.PostID, r.AuthorID, r.CreatedDate, r.Title, r.Text)
	if err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

func (s *Store) GetPostInfo(ctx context.Context, uuid string) (model.PostInfo, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT post.uuid,
	channel.uuid, channel.handle, channel.name, channel.language_code,
	revision.uuid, revision.created_date, revision.title, revision.revision_text,
	author.uuid, author.name
FROM post, channel, revision, author
WHERE post.uuid = ?
	AND post.is_deleted = 0
	AND post.channel_id = channel.id
	AND channel.is_deleted = 0
	AND revision.post_id = post.id
	AND revision.author_id = author.id
	AND `+latestRevision+`
`, uuid)
	var p model.PostInfo
	if err := row.Scan(
		&p.PostUUID,
		&p.Channel.UUID, &p.Channel.Handle, &p.Channel.Name, &p.Channel.Lang,
		&p.RevisionUUID, &p.RevisionDate, &p.Title, &p.Text,
		&p.Author.UUID, &p.Author.Name,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PostInfo{}, store.ErrNotFound
		}
		return model.PostInfo{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT DISTINCT post_tag.name
FROM post_tag INNER JOIN post ON post_tag.post_id = post.id
WHERE post.is_deleted = 0 AND post.uuid = ?
ORDER BY post_tag.name ASC
`, uuid)
	if err != nil {
		return model.PostInfo{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return model.PostInfo{}, err
		}
		p.Tags = append(p.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return model.PostInfo{}, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (s *Store) GetPostForAuthor(ctx context.Context, postUUID string, authorID int64) (model.Post, model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT post.id, post.uuid, post.channel_id,
	channel.id, channel.uuid, channel.handle, channel.name, channel.created_date, channel.language_code, channel.description_text
FROM post, channel, channel_author
WHERE post.uuid = ?
	AND post.is_deleted = 0
	AND post.channel_id = channel.id
	AND channel.is_deleted = 0
	AND channel.id = channel_author.channel_id
	AND channel_author.author_id = ?
`, postUUID, authorID)
	var p model.Post
	var c model.Channel
	if err := row.Scan(
		&p.ID, &p.UUID, &p.ChannelID,
		&c.ID, &c.UUID, &c.Handle, &c.Name, &c.CreatedDate, &c.LanguageCode, &c.DescriptionText,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, model.Channel{}, store.ErrNotFound
		}
		return model.Post{}, model.Channel{}, err
	}
	return p, c, nil
}

const postSummarySelect = `
SELECT post.uuid,
	channel.uuid, channel.handle, channel.name, channel.language_code,
	revision.uuid, revision.created_date, revision.title,
	author.uuid, author.name
FROM post, channel, revision, author
WHERE post.is_deleted = 0
	AND post.channel_id = channel.id
	AND channel.is_deleted = 0
	AND revision.post_id = post.id
	AND revision.author_id = author.id
	AND author.is_deleted = 0
	AND ` + latestRevision

func (s *Store) ListPosts(ctx context.Context) ([]model.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, postSummarySelect+`
ORDER BY revision.created_date DESC
LIMIT 1000
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPostSummaries(rows)
}

func (s *Store) ListPostsByChannel(ctx context.Context, channelUUID string) ([]model.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, postSummarySelect+`
	AND channel.uuid = ?
ORDER BY revision.created_date DESC
LIMIT 1000
`, channelUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPostSummaries(rows)
}

func (s *Store) ListPostsByAuthor(ctx context.Context, authorUUID string) ([]model.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, postSummarySelect+`
	AND author.uuid = ?
ORDER BY revision.created_date DESC
LIMIT 1000
`, authorUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPostSummaries(rows)
}

func (s *Store) SoftDeletePostByUUID(ctx context.Context, uuid string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE post SET is_deleted = 1 WHERE uuid = ?`, uuid)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListTags(ctx context.Context) ([]model.TagCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT post_tag.name, COUNT(post.id)
FROM post_tag INNER JOIN post ON post_tag.post_id = post.id
WHERE post.is_deleted = 0
GROUP BY post_tag.name
ORDER BY COUNT(post.id) DESC, post_tag.name ASC
LIMIT 1000
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.TagCount
	for rows.Next() {
		var t model.TagCount
		if err := rows.Scan(&t.Name, &t.PostCount); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) UpsertMetaPage(ctx context.Context, pageName, title, pageText string, updatedDate int64) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO meta_page (page_name, title, page_text, updated_date)
VALUES (?, ?, ?, ?)
`, pageName, title, pageText, updatedDate)
	return err
}

func (s *Store) DeleteMetaPage(ctx context.Context, pageName string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meta_page WHERE page_name = ?`, pageName)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetMetaPage(ctx context.Context, pageName string) (model.MetaPage, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT page_name, title, page_text, updated_date
FROM meta_page
WHERE page_name = ?
`, pageName)
	var p model.MetaPage
	if err := row.Scan(&p.PageName, &p.Title, &p.PageText, &p.UpdatedDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MetaPage{}, store.ErrNotFound
		}
		return model.MetaPage{}, err
	}
	return p, nil
}

func (s *Store) ListMetaPages(ctx context.Context) ([]model.MetaPageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT page_name, title, updated_date
FROM meta_page
ORDER BY updated_date DESC
LIMIT 1000
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.MetaPageSummary
	for rows.Next() {
		var p model.MetaPageSummary
		if err := rows.Scan(&p.PageName, &p.Title, &p.UpdatedDate); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func scanChannel(row *sql.Row) (model.Channel, error) {
	var c model.Channel
	if err := row.Scan(&c.ID, &c.UUID, &c.Handle, &c.Name, &c.CreatedDate, &c.LanguageCode, &c.DescriptionText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Channel{}, store.ErrNotFound
		}
		return model.Channel{}, err
	}
	return c, nil
}

func collectChannelSummaries(rows *sql.Rows) ([]model.ChannelSummary, error) {
	var channels []model.ChannelSummary
	for rows.Next() {
		var c model.ChannelSummary
		if err := rows.Scan(&c.UUID, &c.Handle, &c.Name, &c.Lang); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func collectPostSummaries(rows *sql.Rows) ([]model.PostSummary, error) {
	var posts []model.PostSummary
	for rows.Next() {
		var p model.PostSummary
		if err := rows.Scan(
			&p.PostUUID,
			&p.Channel.UUID, &p.Channel.Handle, &p.Channel.Name, &p.Channel.Lang,
			&p.RevisionUUID, &p.RevisionDate, &p.Title,
			&p.Author.UUID, &p.Author.Name,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
