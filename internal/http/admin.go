package httpapp

import (
	"errors"
	"net/http"
	"time"

	"github.com/metastable-void/alarkhabil-server/internal/metrics"
	"github.com/metastable-void/alarkhabil-server/internal/validate"
)

// checkToken gates a handler on an operator token passed as the
// "token" query parameter. verify must compare in constant time.
func checkToken(w http.ResponseWriter, r *http.Request, verify func(string) error) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing token parameter"))
		return false
	}
	if err := verify(token); err != nil {
		writeStoreError(w, err)
		return false
	}
	return true
}

//	@Summary		Mint a registration invite
//	@Description	Returns a fresh single-use invite token. Requires the invite-making token.
//	@Tags			Admin
//	@Produce		json
//	@Param			token	query		string	true	"Invite-making token (hex)"
//	@Success		200		{object}	map[string]any
//	@Failure		401		{object}	map[string]any
//	@Router			/api/v1/invite/new [get]
func (s *Server) handleInviteNew(w http.ResponseWriter, r *http.Request) {
	if !checkToken(w, r, s.auth.VerifyInviteMakingToken) {
		return
	}
	invite, err := s.auth.NewInvite()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.InvitesIssuedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"invite": invite,
	})
}

//	@Summary		Create or replace a site page
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			token	query		string	true	"Admin token (hex)"
//	@Param			body	body		object	true	"Page content"
//	@Success		200		{object}	map[string]any
//	@Failure		401		{object}	map[string]any
//	@Router			/api/v1/admin/meta/update [post]
func (s *Server) handleAdminMetaUpdate(w http.ResponseWriter, r *http.Request) {
	if !checkToken(w, r, s.auth.VerifyAdminToken) {
		return
	}
	var req struct {
		PageName string `json:"page_name"`
		Title    string `json:"title"`
		Text     string `json:"text"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.PageName == "" || len(req.PageName) > validate.MaxItemNameSize {
		writeError(w, http.StatusBadRequest, errors.New("invalid page_name"))
		return
	}
	if len(req.Title) > validate.MaxPageTitleSize {
		writeError(w, http.StatusBadRequest, errors.New("title is too long"))
		return
	}
	if len(req.Text) > validate.MaxPageTextSize {
		writeError(w, http.StatusBadRequest, errors.New("text is too long"))
		return
	}
	if err := s.store.UpsertMetaPage(r.Context(), req.PageName, req.Title, req.Text, time.Now().Unix()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Delete a site page
//	@Tags			Admin
//	@Produce		json
//	@Param			token		query		string	true	"Admin token (hex)"
//	@Param			page_name	query		string	true	"Page name"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	map[string]any
//	@Router			/api/v1/admin/meta/delete [post]
func (s *Server) handleAdminMetaDelete(w http.ResponseWriter, r *http.Request) {
	if !checkToken(w, r, s.auth.VerifyAdminToken) {
		return
	}
	pageName := r.URL.Query().Get("page_name")
	if pageName == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing page_name parameter"))
		return
	}
	if err := s.store.DeleteMetaPage(r.Context(), pageName); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Remove a post
//	@Tags			Admin
//	@Produce		json
//	@Param			token	query		string	true	"Admin token (hex)"
//	@Param			uuid	query		string	true	"Post uuid"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/admin/post/delete [post]
func (s *Server) handleAdminPostDelete(w http.ResponseWriter, r *http.Request) {
	if !checkToken(w, r, s.auth.VerifyAdminToken) {
		return
	}
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	if err := s.store.SoftDeletePostByUUID(r.Context(), uuid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

//	@Summary		Remove an author
//	@Tags			Admin
//	@Produce		json
//	@Param			token	query		string	true	"Admin token (hex)"
//	@Param			uuid	query		string	true	"Author uuid"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Router			/api/v1/admin/author/delete [post]
func (s *Server) handleAdminAuthorDelete(w http.ResponseWriter, r *http.Request) {
	if !checkToken(w, r, s.auth.VerifyAdminToken) {
		return
	}
	uuid := r.URL.Query().Get("uuid")
	if uuid == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing uuid parameter"))
		return
	}
	if err := s.store.SoftDeleteAuthorByUUID(r.Context(), uuid); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
