// Package client is a Go client for the Alarkhabil API. It handles
// keypair management and request signing so callers work with plain
// values.
package client

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/model"
)

// Credentials is an author identity: a display name plus the Ed25519
// seed used to sign requests.
type Credentials struct {
	Name string
	key  crypto.PrivateKey
}

// GenerateCredentials creates a fresh Ed25519 identity.
func GenerateCredentials(name string) (*Credentials, error) {
	key, err := crypto.NewPrivateKey(crypto.AlgoEd25519)
	if err != nil {
		return nil, err
	}
	return &Credentials{Name: name, key: key}, nil
}

// CredentialsFromSeed restores an identity from a base64-encoded seed,
// as produced by Seed.
func CredentialsFromSeed(name, seed string) (*Credentials, error) {
	raw, err := base64.StdEncoding.DecodeString(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	key, err := crypto.PrivateKeyFromBytes(crypto.AlgoEd25519, raw)
	if err != nil {
		return nil, err
	}
	return &Credentials{Name: name, key: key}, nil
}

// Seed returns the base64-encoded private seed for persistence.
func (c *Credentials) Seed() string {
	return base64.StdEncoding.EncodeToString(c.key.Key())
}

// PublicKey returns the identity's Ed25519 public key.
func (c *Credentials) PublicKey() []byte {
	priv := ed25519.NewKeyFromSeed(c.key.Key())
	return priv.Public().(ed25519.PublicKey)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) get(path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(path string, query url.Values, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodPost, u, strings.NewReader(string(raw)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// signedPost wraps payload in a signed envelope and POSTs it.
func (c *Client) signedPost(path string, creds *Credentials, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := crypto.Sign(creds.key, raw)
	if err != nil {
		return err
	}
	return c.postJSON(path, nil, msg, out)
}

// Register redeems an invite token and creates the account.
func (c *Client) Register(creds *Credentials, invite string) (string, error) {
	var resp struct {
		UUID string `json:"uuid"`
	}
	err := c.signedPost("/api/v1/account/new", creds, map[string]any{
		"command": "account_new",
		"name":    creds.Name,
		"invite":  invite,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.UUID, nil
}

// DeleteAccount removes the caller's account.
func (c *Client) DeleteAccount(creds *Credentials) error {
	return c.signedPost("/api/v1/account/delete", creds, map[string]any{
		"command": "account_delete",
	}, nil)
}

// ChangeCredentials rotates the account to a new keypair. The new key
// signs the old public key as proof of possession.
func (c *Client) ChangeCredentials(current, next *Credentials) error {
	proof, err := crypto.Sign(next.key, current.PublicKey())
	if err != nil {
		return err
	}
	return c.signedPost("/api/v1/account/change_credentials", current, map[string]any{
		"command":        "account_change_credentials",
		"new_algo":       string(crypto.AlgoEd25519),
		"new_public_key": next.PublicKey(),
		"signature":      proof.Signature(),
	}, nil)
}

// UpdateProfile sets the caller's display name and description.
func (c *Client) UpdateProfile(creds *Credentials, name, description string) (model.AuthorInfo, error) {
	var info model.AuthorInfo
	err := c.signedPost("/api/v1/self/update", creds, map[string]any{
		"command":          "self_update",
		"name":             name,
		"description_text": description,
	}, &info)
	return info, err
}

// NewChannel creates a channel owned by the caller.
func (c *Client) NewChannel(creds *Credentials, handle, name, lang string) (model.ChannelInfo, error) {
	var info model.ChannelInfo
	err := c.signedPost("/api/v1/channel/new", creds, map[string]any{
		"command": "channel_new",
		"handle":  handle,
		"name":    name,
		"lang":    lang,
	}, &info)
	return info, err
}

// UpdateChannel rewrites a channel's metadata.
func (c *Client) UpdateChannel(creds *Credentials, uuid, handle, name, lang, description string) (model.ChannelInfo, error) {
	var info model.ChannelInfo
	err := c.signedPost("/api/v1/channel/update", creds, map[string]any{
		"command":          "channel_update",
		"uuid":             uuid,
		"handle":           handle,
		"name":             name,
		"lang":             lang,
		"description_text": description,
	}, &info)
	return info, err
}

// DeleteChannel removes a channel the caller is a member of.
func (c *Client) DeleteChannel(creds *Credentials, uuid string) error {
	return c.signedPost("/api/v1/channel/delete", creds, map[string]any{
		"command": "channel_delete",
		"uuid":    uuid,
	}, nil)
}

// NewPost publishes a post to a channel.
func (c *Client) NewPost(creds *Credentials, channelUUID, title, text string, tags []string) (model.PostInfo, error) {
	if tags == nil {
		tags = []string{}
	}
	var info model.PostInfo
	err := c.signedPost("/api/v1/post/new", creds, map[string]any{
		"command":      "post_new",
		"channel_uuid": channelUUID,
		"title":        title,
		"text":         text,
		"tags":         tags,
	}, &info)
	return info, err
}

// UpdatePost appends a revision to an existing post.
func (c *Client) UpdatePost(creds *Credentials, postUUID, title, text string, tags []string) (model.PostInfo, error) {
	if tags == nil {
		tags = []string{}
	}
	var info model.PostInfo
	err := c.signedPost("/api/v1/post/update", creds, map[string]any{
		"command": "post_update",
		"uuid":    postUUID,
		"title":   title,
		"text":    text,
		"tags":    tags,
	}, &info)
	return info, err
}

// NewInvite mints a registration invite (operator only).
func (c *Client) NewInvite(inviteMakingToken string) (string, error) {
	var resp struct {
		Invite string `json:"invite"`
	}
	query := url.Values{"token": {inviteMakingToken}}
	if err := c.get("/api/v1/invite/new", query, &resp); err != nil {
		return "", err
	}
	return resp.Invite, nil
}

// ListAuthors fetches the public author directory.
func (c *Client) ListAuthors() ([]model.AuthorSummary, error) {
	var authors []model.AuthorSummary
	err := c.get("/api/v1/author/list", nil, &authors)
	return authors, err
}

// AuthorInfo fetches one author's profile.
func (c *Client) AuthorInfo(uuid string) (model.AuthorInfo, error) {
	var info model.AuthorInfo
	err := c.get("/api/v1/author/info", url.Values{"uuid": {uuid}}, &info)
	return info, err
}

// ListChannels fetches all channels.
func (c *Client) ListChannels() ([]model.ChannelSummary, error) {
	var channels []model.ChannelSummary
	err := c.get("/api/v1/channel/list", nil, &channels)
	return channels, err
}

// ChannelInfoByHandle fetches a channel by its handle.
func (c *Client) ChannelInfoByHandle(handle string) (model.ChannelInfo, error) {
	var info model.ChannelInfo
	err := c.get("/api/v1/channel/info", url.Values{"handle": {handle}}, &info)
	return info, err
}

// ListPosts fetches the global post listing.
func (c *Client) ListPosts() ([]model.PostSummary, error) {
	var posts []model.PostSummary
	err := c.get("/api/v1/post/list", nil, &posts)
	return posts, err
}

// PostInfo fetches one post with its latest revision.
func (c *Client) PostInfo(uuid string) (model.PostInfo, error) {
	var info model.PostInfo
	err := c.get("/api/v1/post/info", url.Values{"uuid": {uuid}}, &info)
	return info, err
}

// ListTags fetches tag usage counts.
func (c *Client) ListTags() ([]model.TagCount, error) {
	var tags []model.TagCount
	err := c.get("/api/v1/tag/list", nil, &tags)
	return tags, err
}

// MetaInfo fetches a site page.
func (c *Client) MetaInfo(pageName string) (model.MetaPageInfo, error) {
	var info model.MetaPageInfo
	err := c.get("/api/v1/meta/info", url.Values{"page_name": {pageName}}, &info)
	return info, err
}

// AdminMetaUpdate creates or replaces a site page (operator only).
func (c *Client) AdminMetaUpdate(adminToken, pageName, title, text string) error {
	query := url.Values{"token": {adminToken}}
	return c.postJSON("/api/v1/admin/meta/update", query, map[string]any{
		"page_name": pageName,
		"title":     title,
		"text":      text,
	}, nil)
}

// AdminDeletePost removes a post (operator only).
func (c *Client) AdminDeletePost(adminToken, uuid string) error {
	query := url.Values{"token": {adminToken}, "uuid": {uuid}}
	return c.postJSON("/api/v1/admin/post/delete", query, nil, nil)
}

// AdminDeleteAuthor removes an author (operator only).
func (c *Client) AdminDeleteAuthor(adminToken, uuid string) error {
	query := url.Values{"token": {adminToken}, "uuid": {uuid}}
	return c.postJSON("/api/v1/admin/author/delete", query, nil, nil)
}
