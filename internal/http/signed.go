package httpapp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/markdown"
	"github.com/metastable-void/alarkhabil-server/internal/metrics"
	"github.com/metastable-void/alarkhabil-server/internal/model"
	"github.com/metastable-void/alarkhabil-server/internal/store"
	"github.com/metastable-void/alarkhabil-server/internal/validate"
)

// authorForKey resolves the authenticated signer to a live account.
// An unknown or deleted signer is indistinguishable on purpose.
func (s *Server) authorForKey(w http.ResponseWriter, r *http.Request, publicKey []byte) (model.Author, bool) {
	author, err := s.store.FindAuthorByPublicKey(r.Context(), publicKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, errors.New("unknown signer"))
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return model.Author{}, false
	}
	return author, true
}

//	@Summary		Register an account
//	@Description	Redeems a registration invite. The request body is a signed envelope whose
//	@Description	payload carries the invite token; the envelope's public key becomes the
//	@Description	account's first credential and the invite's uuid becomes the account uuid.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command account_new"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Failure		409		{object}	map[string]any	"Invite already redeemed"
//	@Router			/api/v1/account/new [post]
func (s *Server) handleAccountNew(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command string `json:"command"`
		Name    string `json:"name"`
		Invite  string `json:"invite"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "account_new", &msg)
	if !ok {
		return
	}

	accountUUID, err := s.auth.RedeemInvite(r.Context(), msg.Invite, msg.Name, time.Now().Unix(), crypto.AlgoEd25519, publicKey)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.AccountsCreatedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uuid":   accountUUID,
	})
}

//	@Summary		Delete own account
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command account_delete"
//	@Success		200		{object}	map[string]any
//	@Router			/api/v1/account/delete [post]
func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command string `json:"command"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "account_delete", &msg)
	if !ok {
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	if err := s.store.SoftDeleteAuthor(r.Context(), author.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Rotate account credentials
//	@Description	Replaces the signing key bound to the authenticated account. The payload
//	@Description	carries a proof signature made with the new key over the current public key.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command account_change_credentials"
//	@Success		200		{object}	map[string]any
//	@Failure		401		{object}	map[string]any
//	@Router			/api/v1/account/change_credentials [post]
func (s *Server) handleAccountChangeCredentials(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command      string `json:"command"`
		NewAlgo      string `json:"new_algo"`
		NewPublicKey []byte `json:"new_public_key"`
		Signature    []byte `json:"signature"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "account_change_credentials", &msg)
	if !ok {
		return
	}
	if msg.NewAlgo != string(crypto.AlgoEd25519) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", crypto.ErrUnsupportedAlgorithm, msg.NewAlgo))
		return
	}

	proof, err := crypto.NewSignedMessage(crypto.Algorithm(msg.NewAlgo), msg.NewPublicKey, msg.Signature, publicKey)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.auth.ChangeCredentials(r.Context(), publicKey, proof); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Update own profile
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command self_update"
//	@Success		200		{object}	model.AuthorInfo
//	@Router			/api/v1/self/update [post]
func (s *Server) handleSelfUpdate(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command         string `json:"command"`
		Name            string `json:"name"`
		DescriptionText string `json:"description_text"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "self_update", &msg)
	if !ok {
		return
	}
	if len(msg.Name) > validate.MaxItemNameSize {
		writeError(w, http.StatusBadRequest, errors.New("name is too long"))
		return
	}
	if len(msg.DescriptionText) > validate.MaxItemDescriptionSize {
		writeError(w, http.StatusBadRequest, errors.New("description is too long"))
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	if err := s.store.UpdateAuthorProfile(r.Context(), author.ID, msg.Name, msg.DescriptionText); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AuthorInfo{
		UUID:            author.UUID,
		Name:            msg.Name,
		CreatedDate:     author.RegisteredDate,
		DescriptionText: msg.DescriptionText,
	})
}

//	@Summary		Create a channel
//	@Tags			Channels
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command channel_new"
//	@Success		200		{object}	model.ChannelInfo
//	@Failure		409		{object}	map[string]any	"Handle already taken"
//	@Router			/api/v1/channel/new [post]
func (s *Server) handleChannelNew(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command string `json:"command"`
		Handle  string `json:"handle"`
		Name    string `json:"name"`
		Lang    string `json:"lang"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "channel_new", &msg)
	if !ok {
		return
	}
	if err := validate.ChannelHandle(msg.Handle); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := validate.LanguageCode(msg.Lang); err != nil {
		writeStoreError(w, err)
		return
	}
	if len(msg.Name) > validate.MaxItemNameSize {
		writeError(w, http.StatusBadRequest, errors.New("name is too long"))
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}

	channelUUID := uuid.NewString()
	createdDate := time.Now().Unix()
	if err := s.store.CreateChannel(r.Context(), channelUUID, msg.Handle, msg.Name, createdDate, msg.Lang, author.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ChannelInfo{
		UUID:            channelUUID,
		Handle:          msg.Handle,
		Name:            msg.Name,
		CreatedDate:     createdDate,
		Lang:            msg.Lang,
		DescriptionText: "",
		DescriptionHTML: markdown.ToHTML(""),
	})
}

//	@Summary		Update a channel
//	@Tags			Channels
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command channel_update"
//	@Success		200		{object}	model.ChannelInfo
//	@Failure		404		{object}	map[string]any	"Not a member of the channel"
//	@Router			/api/v1/channel/update [post]
func (s *Server) handleChannelUpdate(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command         string `json:"command"`
		UUID            string `json:"uuid"`
		Handle          string `json:"handle"`
		Name            string `json:"name"`
		Lang            string `json:"lang"`
		DescriptionText string `json:"description_text"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "channel_update", &msg)
	if !ok {
		return
	}
	if err := validate.ChannelHandle(msg.Handle); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := validate.LanguageCode(msg.Lang); err != nil {
		writeStoreError(w, err)
		return
	}
	if len(msg.Name) > validate.MaxItemNameSize {
		writeError(w, http.StatusBadRequest, errors.New("name is too long"))
		return
	}
	if len(msg.DescriptionText) > validate.MaxItemDescriptionSize {
		writeError(w, http.StatusBadRequest, errors.New("description is too long"))
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	channel, err := s.store.GetChannelForAuthor(r.Context(), msg.UUID, author.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.UpdateChannel(r.Context(), channel.ID, msg.Handle, msg.Name, msg.Lang, msg.DescriptionText); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ChannelInfo{
		UUID:            channel.UUID,
		Handle:          msg.Handle,
		Name:            msg.Name,
		CreatedDate:     channel.CreatedDate,
		Lang:            msg.Lang,
		DescriptionText: msg.DescriptionText,
		DescriptionHTML: markdown.ToHTML(msg.DescriptionText),
	})
}

//	@Summary		Delete a channel
//	@Tags			Channels
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command channel_delete"
//	@Success		200		{object}	map[string]any
//	@Router			/api/v1/channel/delete [post]
func (s *Server) handleChannelDelete(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command string `json:"command"`
		UUID    string `json:"uuid"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "channel_delete", &msg)
	if !ok {
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	channel, err := s.store.GetChannelForAuthor(r.Context(), msg.UUID, author.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.SoftDeleteChannel(r.Context(), channel.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Publish a post
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command post_new"
//	@Success		200		{object}	model.PostInfo
//	@Failure		404		{object}	map[string]any	"Not a member of the channel"
//	@Router			/api/v1/post/new [post]
func (s *Server) handlePostNew(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command     string   `json:"command"`
		ChannelUUID string   `json:"channel_uuid"`
		Title       string   `json:"title"`
		Text        string   `json:"text"`
		Tags        []string `json:"tags"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "post_new", &msg)
	if !ok {
		return
	}
	if !validatePostContent(w, msg.Title, msg.Text, msg.Tags) {
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	channel, err := s.store.GetChannelForAuthor(r.Context(), msg.ChannelUUID, author.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	postUUID := uuid.NewString()
	revisionUUID := uuid.NewString()
	createdDate := time.Now().Unix()
	err = s.store.CreatePost(r.Context(), store.NewPost{
		PostUUID:     postUUID,
		ChannelID:    channel.ID,
		AuthorID:     author.ID,
		RevisionUUID: revisionUUID,
		CreatedDate:  createdDate,
		Title:        msg.Title,
		Text:         msg.Text,
		Tags:         msg.Tags,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postInfo(postUUID, channel, msg.Tags, revisionUUID, createdDate, msg.Title, msg.Text, author))
}

//	@Summary		Edit a post
//	@Description	Appends a new revision to an existing post and replaces its tag set.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"Signed envelope with command post_update"
//	@Success		200		{object}	model.PostInfo
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/post/update [post]
func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	var msg struct {
		Command string   `json:"command"`
		UUID    string   `json:"uuid"`
		Title   string   `json:"title"`
		Text    string   `json:"text"`
		Tags    []string `json:"tags"`
	}
	publicKey, ok := s.readSignedRequest(w, r, "post_update", &msg)
	if !ok {
		return
	}
	if !validatePostContent(w, msg.Title, msg.Text, msg.Tags) {
		return
	}
	author, ok := s.authorForKey(w, r, publicKey)
	if !ok {
		return
	}
	post, channel, err := s.store.GetPostForAuthor(r.Context(), msg.UUID, author.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	revisionUUID := uuid.NewString()
	createdDate := time.Now().Unix()
	err = s.store.AddRevision(r.Context(), store.NewRevision{
		PostID:       post.ID,
		AuthorID:     author.ID,
		RevisionUUID: revisionUUID,
		CreatedDate:  createdDate,
		Title:        msg.Title,
		Text:         msg.Text,
		Tags:         msg.Tags,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postInfo(post.UUID, channel, msg.Tags, revisionUUID, createdDate, msg.Title, msg.Text, author))
}

func validatePostContent(w http.ResponseWriter, title, text string, tags []string) bool {
	if len(title) > validate.MaxPageTitleSize {
		writeError(w, http.StatusBadRequest, errors.New("title is too long"))
		return false
	}
	if len(text) > validate.MaxPageTextSize {
		writeError(w, http.StatusBadRequest, errors.New("text is too long"))
		return false
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > validate.MaxItemNameSize {
			writeError(w, http.StatusBadRequest, errors.New("invalid tag"))
			return false
		}
	}
	return true
}

func postInfo(postUUID string, channel model.Channel, tags []string, revisionUUID string, createdDate int64, title, text string, author model.Author) model.PostInfo {
	if tags == nil {
		tags = []string{}
	}
	return model.PostInfo{
		PostUUID: postUUID,
		Channel: model.ChannelSummary{
			UUID:   channel.UUID,
			Handle: channel.Handle,
			Name:   channel.Name,
			Lang:   channel.LanguageCode,
		},
		Tags:         tags,
		RevisionUUID: revisionUUID,
		RevisionDate: createdDate,
		Title:        title,
		Text:         text,
		Author: model.AuthorSummary{
			UUID: author.UUID,
			Name: author.Name,
		},
	}
}
