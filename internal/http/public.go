package httpapp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/markdown"
	"github.com/metastable-void/alarkhabil-server/internal/model"
)

//	@Summary		Service status
//	@Description	Returns a plain-text greeting with the number of registered authors.
//	@Tags			Status
//	@Produce		plain
//	@Success		200	{string}	string
//	@Router			/ [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountAuthors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Signing self-test: a broken crypto stack should be visible here
	// rather than on the first privileged request.
	key, err := crypto.NewPrivateKey(crypto.AlgoEd25519)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	msg, err := crypto.Sign(key, []byte("Hello, world!"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := msg.Verify(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello, world! %d authors\n", count)
}

//	@Summary		List authors
//	@Tags			Authors
//	@Produce		json
//	@Success		200	{array}	model.AuthorSummary
//	@Router			/api/v1/author/list [get]
func (s *Server) handleAuthorList(w http.ResponseWriter, r *http.Request) {
	authors, err := s.store.ListAuthors(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if authors == nil {
		authors = []model.AuthorSummary{}
	}
	writeJSON(w, http.StatusOK, authors)
}

//	@Summary		Get author details
//	@Tags			Authors
//	@Produce		json
//	@Param			uuid	query		string	true	"Author uuid"
//	@Success		200		{object}	model.AuthorInfo
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/author/info [get]
func (s *Server) handleAuthorInfo(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	author, err := s.store.GetAuthorByUUID(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AuthorInfo{
		UUID:            author.UUID,
		Name:            author.Name,
		CreatedDate:     author.RegisteredDate,
		DescriptionText: author.DescriptionText,
	})
}

//	@Summary		List an author's posts
//	@Tags			Authors
//	@Produce		json
//	@Param			uuid	query	string	true	"Author uuid"
//	@Success		200		{array}	model.PostSummary
//	@Router			/api/v1/author/posts [get]
func (s *Server) handleAuthorPosts(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	posts, err := s.store.ListPostsByAuthor(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []model.PostSummary{}
	}
	writeJSON(w, http.StatusOK, posts)
}

//	@Summary		List an author's channels
//	@Tags			Authors
//	@Produce		json
//	@Param			uuid	query	string	true	"Author uuid"
//	@Success		200		{array}	model.ChannelSummary
//	@Router			/api/v1/author/channels [get]
func (s *Server) handleAuthorChannels(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	channels, err := s.store.ListChannelsByAuthor(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if channels == nil {
		channels = []model.ChannelSummary{}
	}
	writeJSON(w, http.StatusOK, channels)
}

//	@Summary		List channels
//	@Tags			Channels
//	@Produce		json
//	@Success		200	{array}	model.ChannelSummary
//	@Router			/api/v1/channel/list [get]
func (s *Server) handleChannelList(w http.ResponseWriter, r *http.Request) {
	channels, err := s.store.ListChannels(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if channels == nil {
		channels = []model.ChannelSummary{}
	}
	writeJSON(w, http.StatusOK, channels)
}

//	@Summary		Get channel details
//	@Description	Looks up a channel by uuid or handle. Exactly one of the two parameters must be given.
//	@Tags			Channels
//	@Produce		json
//	@Param			uuid	query		string	false	"Channel uuid"
//	@Param			handle	query		string	false	"Channel handle"
//	@Success		200		{object}	model.ChannelInfo
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/channel/info [get]
func (s *Server) handleChannelInfo(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	handle := r.URL.Query().Get("handle")
	if uuid == "" && handle == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid or handle parameter"))
		return
	}
	if uuid != "" && handle != "" {
		writeError(w, http.StatusBadRequest, errors.New("both uuid and handle parameters are present"))
		return
	}

	var channel model.Channel
	var err error
	if uuid != "" {
		channel, err = s.store.GetChannelByUUID(r.Context(), uuid)
	} else {
		channel, err = s.store.GetChannelByHandle(r.Context(), handle)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channelInfo(channel))
}

//	@Summary		List a channel's posts
//	@Tags			Channels
//	@Produce		json
//	@Param			uuid	query	string	true	"Channel uuid"
//	@Success		200		{array}	model.PostSummary
//	@Router			/api/v1/channel/posts [get]
func (s *Server) handleChannelPosts(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	posts, err := s.store.ListPostsByChannel(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []model.PostSummary{}
	}
	writeJSON(w, http.StatusOK, posts)
}

//	@Summary		List a channel's authors
//	@Tags			Channels
//	@Produce		json
//	@Param			uuid	query	string	true	"Channel uuid"
//	@Success		200		{array}	model.AuthorSummary
//	@Router			/api/v1/channel/authors [get]
func (s *Server) handleChannelAuthors(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	authors, err := s.store.ListChannelAuthors(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if authors == nil {
		authors = []model.AuthorSummary{}
	}
	writeJSON(w, http.StatusOK, authors)
}

//	@Summary		List posts
//	@Description	Lists the latest revision of every surviving post, newest first.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}	model.PostSummary
//	@Router			/api/v1/post/list [get]
func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []model.PostSummary{}
	}
	writeJSON(w, http.StatusOK, posts)
}

//	@Summary		Get post details
//	@Tags			Posts
//	@Produce		json
//	@Param			uuid	query		string	true	"Post uuid"
//	@Success		200		{object}	model.PostInfo
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/post/info [get]
func (s *Server) handlePostInfo(w http.ResponseWriter, r *http.Request) {
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	info, err := s.store.GetPostInfo(r.Context(), uuid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

//	@Summary		List tags
//	@Description	Lists tags in use together with the number of surviving posts carrying each.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}	model.TagCount
//	@Router			/api/v1/tag/list [get]
func (s *Server) handleTagList(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if tags == nil {
		tags = []model.TagCount{}
	}
	writeJSON(w, http.StatusOK, tags)
}

//	@Summary		List site pages
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{array}	model.MetaPageSummary
//	@Router			/api/v1/meta/list [get]
func (s *Server) handleMetaList(w http.ResponseWriter, r *http.Request) {
	pages, err := s.store.ListMetaPages(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if pages == nil {
		pages = []model.MetaPageSummary{}
	}
	writeJSON(w, http.StatusOK, pages)
}

//	@Summary		Get a site page
//	@Tags			Meta
//	@Produce		json
//	@Param			page_name	query		string	true	"Page name"
//	@Success		200			{object}	model.MetaPageInfo
//	@Failure		404			{object}	map[string]any
//	@Router			/api/v1/meta/info [get]
func (s *Server) handleMetaInfo(w http.ResponseWriter, r *http.Request) {
	pageName := r.URL.Query().Get("page_name")
	if pageName == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing page_name parameter"))
		return
	}
	page, err := s.store.GetMetaPage(r.Context(), pageName)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MetaPageInfo{
		PageName:    page.PageName,
		Title:       page.Title,
		UpdatedDate: page.UpdatedDate,
		PageText:    page.PageText,
		PageHTML:    markdown.ToHTML(page.PageText),
	})
}

func channelInfo(c model.Channel) model.ChannelInfo {
	return model.ChannelInfo{
		UUID:            c.UUID,
		Handle:          c.Handle,
		Name:            c.Name,
		CreatedDate:     c.CreatedDate,
		Lang:            c.LanguageCode,
		DescriptionText: c.DescriptionText,
		DescriptionHTML: markdown.ToHTML(c.DescriptionText),
	}
}
