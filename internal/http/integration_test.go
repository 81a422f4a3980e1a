package httpapp

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metastable-void/alarkhabil-server/internal/auth"
	"github.com/metastable-void/alarkhabil-server/internal/client"
	"github.com/metastable-void/alarkhabil-server/internal/config"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
	"github.com/metastable-void/alarkhabil-server/internal/store/sqlite"
	"github.com/metastable-void/alarkhabil-server/internal/validate"
)

type testEnv struct {
	client *client.Client
	auth   *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	authSvc := auth.NewService(st, secret.New("test root"))
	server := NewServer(st, authSvc, config.Config{})
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	return &testEnv{client: client.New(ts.URL), auth: authSvc}
}

// registerAuthor mints an invite and redeems it for fresh credentials.
func (e *testEnv) registerAuthor(t *testing.T, name string) (*client.Credentials, string) {
	t.Helper()
	invite, err := e.client.NewInvite(e.auth.InviteMakingToken())
	if err != nil {
		t.Fatalf("mint invite: %v", err)
	}
	creds, err := client.GenerateCredentials(name)
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	uuid, err := e.client.Register(creds, invite)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return creds, uuid
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.StatusCode
}

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv(t)

	_, uuid := env.registerAuthor(t, "alice")

	info, err := env.client.AuthorInfo(uuid)
	if err != nil {
		t.Fatalf("author info: %v", err)
	}
	if info.Name != "alice" {
		t.Fatalf("expected alice, got %q", info.Name)
	}

	authors, err := env.client.ListAuthors()
	if err != nil {
		t.Fatalf("list authors: %v", err)
	}
	if len(authors) != 1 || authors[0].UUID != uuid {
		t.Fatalf("unexpected author list: %+v", authors)
	}
}

func TestInviteIsSingleUse(t *testing.T) {
	env := newTestEnv(t)

	invite, err := env.client.NewInvite(env.auth.InviteMakingToken())
	if err != nil {
		t.Fatalf("mint invite: %v", err)
	}

	first, err := client.GenerateCredentials("first")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	if _, err := env.client.Register(first, invite); err != nil {
		t.Fatalf("first redemption: %v", err)
	}

	second, err := client.GenerateCredentials("second")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	_, err = env.client.Register(second, invite)
	if status := apiStatus(t, err); status != http.StatusConflict {
		t.Fatalf("expected 409 for reused invite, got %d", status)
	}
}

func TestInviteTokenGating(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.NewInvite("0000")
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", status)
	}
	// Admin token is not an invite-making token.
	_, err = env.client.NewInvite(env.auth.AdminToken())
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for cross-purpose token, got %d", status)
	}
}

func TestChannelAndPostFlow(t *testing.T) {
	env := newTestEnv(t)
	creds, authorUUID := env.registerAuthor(t, "writer")

	channel, err := env.client.NewChannel(creds, "my-blog", "My Blog", "en")
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	if channel.Handle != "my-blog" {
		t.Fatalf("unexpected channel: %+v", channel)
	}

	post, err := env.client.NewPost(creds, channel.UUID, "Hello", "First **post**", []string{"intro", "meta"})
	if err != nil {
		t.Fatalf("new post: %v", err)
	}
	if post.Title != "Hello" || len(post.Tags) != 2 {
		t.Fatalf("unexpected post: %+v", post)
	}

	// Public reads see the latest revision.
	got, err := env.client.PostInfo(post.PostUUID)
	if err != nil {
		t.Fatalf("post info: %v", err)
	}
	if got.Text != "First **post**" || got.Author.UUID != authorUUID {
		t.Fatalf("unexpected post info: %+v", got)
	}

	updated, err := env.client.UpdatePost(creds, post.PostUUID, "Hello v2", "Edited", []string{"intro"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.RevisionUUID == post.RevisionUUID {
		t.Fatalf("expected a fresh revision uuid")
	}

	got, err = env.client.PostInfo(post.PostUUID)
	if err != nil {
		t.Fatalf("post info after edit: %v", err)
	}
	if got.Title != "Hello v2" || len(got.Tags) != 1 || got.Tags[0] != "intro" {
		t.Fatalf("edit not served: %+v", got)
	}

	posts, err := env.client.ListPosts()
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Hello v2" {
		t.Fatalf("unexpected post list: %+v", posts)
	}

	tags, err := env.client.ListTags()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "intro" || tags[0].PostCount != 1 {
		t.Fatalf("unexpected tag list: %+v", tags)
	}
}

func TestChannelAccessControl(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.registerAuthor(t, "owner")
	stranger, _ := env.registerAuthor(t, "stranger")

	channel, err := env.client.NewChannel(owner, "mine", "Mine", "en")
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}

	// Only members can post to a channel.
	_, err = env.client.NewPost(stranger, channel.UUID, "Nope", "text", nil)
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("expected 404 for non-member post, got %d", status)
	}

	// Duplicate handles are rejected.
	_, err = env.client.NewChannel(stranger, "mine", "Mine Too", "en")
	if status := apiStatus(t, err); status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate handle, got %d", status)
	}
}

func TestSelfUpdate(t *testing.T) {
	env := newTestEnv(t)
	creds, uuid := env.registerAuthor(t, "old name")

	info, err := env.client.UpdateProfile(creds, "new name", "I write *things*")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if info.Name != "new name" || info.UUID != uuid {
		t.Fatalf("unexpected profile: %+v", info)
	}

	got, err := env.client.AuthorInfo(uuid)
	if err != nil {
		t.Fatalf("author info: %v", err)
	}
	if got.Name != "new name" || got.DescriptionText != "I write *things*" {
		t.Fatalf("profile not persisted: %+v", got)
	}
}

func TestChangeCredentials(t *testing.T) {
	env := newTestEnv(t)
	creds, _ := env.registerAuthor(t, "rotator")

	next, err := client.GenerateCredentials("rotator")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	if err := env.client.ChangeCredentials(creds, next); err != nil {
		t.Fatalf("change credentials: %v", err)
	}

	// The old key no longer signs for the account.
	_, err = env.client.UpdateProfile(creds, "stale", "")
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for old key, got %d", status)
	}

	// The new key does.
	if _, err := env.client.UpdateProfile(next, "fresh", ""); err != nil {
		t.Fatalf("new key rejected: %v", err)
	}
}

func TestAccountDelete(t *testing.T) {
	env := newTestEnv(t)
	creds, uuid := env.registerAuthor(t, "leaver")

	if err := env.client.DeleteAccount(creds); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	_, err := env.client.AuthorInfo(uuid)
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted author, got %d", status)
	}
	// The key is gone with the account.
	_, err = env.client.UpdateProfile(creds, "ghost", "")
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after delete, got %d", status)
	}
}

func TestAdminMetaPages(t *testing.T) {
	env := newTestEnv(t)
	admin := env.auth.AdminToken()

	if err := env.client.AdminMetaUpdate(admin, "about", "About Us", "We publish."); err != nil {
		t.Fatalf("meta update: %v", err)
	}
	info, err := env.client.MetaInfo("about")
	if err != nil {
		t.Fatalf("meta info: %v", err)
	}
	if info.Title != "About Us" || !strings.Contains(info.PageHTML, "We publish.") {
		t.Fatalf("unexpected meta page: %+v", info)
	}

	// Upsert replaces in place.
	if err := env.client.AdminMetaUpdate(admin, "about", "About", "Rewritten."); err != nil {
		t.Fatalf("meta re-update: %v", err)
	}
	info, err = env.client.MetaInfo("about")
	if err != nil {
		t.Fatalf("meta info: %v", err)
	}
	if info.Title != "About" {
		t.Fatalf("upsert did not replace: %+v", info)
	}

	err = env.client.AdminMetaUpdate("wrong", "about", "x", "y")
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad admin token, got %d", status)
	}
}

func TestAdminDeletes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.auth.AdminToken()
	creds, authorUUID := env.registerAuthor(t, "target")

	channel, err := env.client.NewChannel(creds, "c", "C", "en")
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	post, err := env.client.NewPost(creds, channel.UUID, "T", "text", nil)
	if err != nil {
		t.Fatalf("new post: %v", err)
	}

	if err := env.client.AdminDeletePost(admin, post.PostUUID); err != nil {
		t.Fatalf("admin delete post: %v", err)
	}
	_, err = env.client.PostInfo(post.PostUUID)
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted post, got %d", status)
	}

	if err := env.client.AdminDeleteAuthor(admin, authorUUID); err != nil {
		t.Fatalf("admin delete author: %v", err)
	}
	_, err = env.client.AuthorInfo(authorUUID)
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted author, got %d", status)
	}

	err = env.client.AdminDeletePost("bogus", post.PostUUID)
	if status := apiStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", status)
	}
}

func TestChannelLookupByHandle(t *testing.T) {
	env := newTestEnv(t)
	creds, _ := env.registerAuthor(t, "handler")

	created, err := env.client.NewChannel(creds, "by-handle", "By Handle", "pt-BR")
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	got, err := env.client.ChannelInfoByHandle("by-handle")
	if err != nil {
		t.Fatalf("channel by handle: %v", err)
	}
	if got.UUID != created.UUID || got.Lang != "pt-BR" {
		t.Fatalf("unexpected channel: %+v", got)
	}
}

func TestRegistrationNameTooLong(t *testing.T) {
	env := newTestEnv(t)

	invite, err := env.client.NewInvite(env.auth.InviteMakingToken())
	if err != nil {
		t.Fatalf("mint invite: %v", err)
	}
	creds, err := client.GenerateCredentials(strings.Repeat("n", validate.MaxItemNameSize+1))
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	_, err = env.client.Register(creds, invite)
	if status := apiStatus(t, err); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized name, got %d", status)
	}
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	creds, _ := env.registerAuthor(t, "validator")

	// Uppercase handles are rejected.
	_, err := env.client.NewChannel(creds, "Bad Handle", "Name", "en")
	if status := apiStatus(t, err); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad handle, got %d", status)
	}
	// So are malformed language codes.
	_, err = env.client.NewChannel(creds, "ok-handle", "Name", "english!")
	if status := apiStatus(t, err); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad language code, got %d", status)
	}
}
