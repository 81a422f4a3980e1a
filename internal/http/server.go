package httpapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/metastable-void/alarkhabil-server/internal/auth"
	"github.com/metastable-void/alarkhabil-server/internal/config"
	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/metrics"
	"github.com/metastable-void/alarkhabil-server/internal/store"
	"github.com/metastable-void/alarkhabil-server/internal/validate"

	_ "github.com/metastable-void/alarkhabil-server/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	store store.Store
	auth  *auth.Service
	cfg   config.Config
}

func NewServer(st store.Store, authSvc *auth.Service, cfg config.Config) *Server {
	return &Server{store: st, auth: authSvc, cfg: cfg}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		metrics.RequestsTotal.WithLabelValues(pathLabel(r.URL.Path), strconv.Itoa(rec.status)).Inc()
	}()

	path := r.URL.Path
	switch {
	case path == "/":
		if r.Method != http.MethodGet {
			methodNotAllowed(rec)
			return
		}
		s.handleRoot(rec, r)
	case path == "/metrics":
		metrics.Handler().ServeHTTP(rec, r)
	case strings.HasPrefix(path, "/swagger/"):
		httpSwagger.WrapHandler.ServeHTTP(rec, r)
	case strings.HasPrefix(path, "/api/v1/"):
		s.handleAPI(rec, r)
	default:
		notFound(rec)
	}
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(strings.TrimPrefix(r.URL.Path, "/api/v1"))

	if len(segments) == 2 {
		switch segments[0] + "/" + segments[1] {
		case "author/list":
			if r.Method == http.MethodGet {
				s.handleAuthorList(w, r)
				return
			}
		case "author/info":
			if r.Method == http.MethodGet {
				s.handleAuthorInfo(w, r)
				return
			}
		case "author/posts":
			if r.Method == http.MethodGet {
				s.handleAuthorPosts(w, r)
				return
			}
		case "author/channels":
			if r.Method == http.MethodGet {
				s.handleAuthorChannels(w, r)
				return
			}
		case "channel/list":
			if r.Method == http.MethodGet {
				s.handleChannelList(w, r)
				return
			}
		case "channel/info":
			if r.Method == http.MethodGet {
				s.handleChannelInfo(w, r)
				return
			}
		case "channel/posts":
			if r.Method == http.MethodGet {
				s.handleChannelPosts(w, r)
				return
			}
		case "channel/authors":
			if r.Method == http.MethodGet {
				s.handleChannelAuthors(w, r)
				return
			}
		case "post/list":
			if r.Method == http.MethodGet {
				s.handlePostList(w, r)
				return
			}
		case "post/info":
			if r.Method == http.MethodGet {
				s.handlePostInfo(w, r)
				return
			}
		case "tag/list":
			if r.Method == http.MethodGet {
				s.handleTagList(w, r)
				return
			}
		case "meta/list":
			if r.Method == http.MethodGet {
				s.handleMetaList(w, r)
				return
			}
		case "meta/info":
			if r.Method == http.MethodGet {
				s.handleMetaInfo(w, r)
				return
			}
		case "invite/new":
			if r.Method == http.MethodGet {
				s.handleInviteNew(w, r)
				return
			}
		case "account/new":
			if r.Method == http.MethodPost {
				s.handleAccountNew(w, r)
				return
			}
		case "account/delete":
			if r.Method == http.MethodPost {
				s.handleAccountDelete(w, r)
				return
			}
		case "account/change_credentials":
			if r.Method == http.MethodPost {
				s.handleAccountChangeCredentials(w, r)
				return
			}
		case "self/update":
			if r.Method == http.MethodPost {
				s.handleSelfUpdate(w, r)
				return
			}
		case "channel/new":
			if r.Method == http.MethodPost {
				s.handleChannelNew(w, r)
				return
			}
		case "channel/update":
			if r.Method == http.MethodPost {
				s.handleChannelUpdate(w, r)
				return
			}
		case "channel/delete":
			if r.Method == http.MethodPost {
				s.handleChannelDelete(w, r)
				return
			}
		case "post/new":
			if r.Method == http.MethodPost {
				s.handlePostNew(w, r)
				return
			}
		case "post/update":
			if r.Method == http.MethodPost {
				s.handlePostUpdate(w, r)
				return
			}
		default:
			notFound(w)
			return
		}
		methodNotAllowed(w)
		return
	}

	if len(segments) == 3 && segments[0] == "admin" {
		switch segments[1] + "/" + segments[2] {
		case "meta/update":
			if r.Method == http.MethodPost {
				s.handleAdminMetaUpdate(w, r)
				return
			}
		case "meta/delete":
			if r.Method == http.MethodPost {
				s.handleAdminMetaDelete(w, r)
				return
			}
		case "post/delete":
			if r.Method == http.MethodPost {
				s.handleAdminPostDelete(w, r)
				return
			}
		case "author/delete":
			if r.Method == http.MethodPost {
				s.handleAdminAuthorDelete(w, r)
				return
			}
		default:
			notFound(w)
			return
		}
		methodNotAllowed(w)
		return
	}

	notFound(w)
}

// readSignedRequest decodes the request body as a signed envelope,
// verifies the signature, checks the payload's command discriminator,
// and decodes the payload into dst. On failure it writes the error
// response itself and returns ok=false. The returned public key is the
// authenticated signer identity.
func (s *Server) readSignedRequest(w http.ResponseWriter, r *http.Request, command string, dst any) ([]byte, bool) {
	var msg crypto.SignedMessage
	if err := readJSON(r.Body, &msg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	publicKey, err := msg.PublicKey()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	payload, err := msg.Verify()
	if err != nil {
		metrics.SignatureChecksTotal.WithLabelValues(string(msg.Algo()), "fail").Inc()
		writeError(w, http.StatusUnauthorized, err)
		return nil, false
	}
	metrics.SignatureChecksTotal.WithLabelValues(string(msg.Algo()), "ok").Inc()

	var head struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if head.Command != command {
		writeError(w, http.StatusBadRequest, errors.New("unexpected command"))
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return publicKey, true
}

// errStatus maps sentinel errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAccountExists),
		errors.Is(err, store.ErrDuplicateHandle),
		errors.Is(err, store.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidInvite),
		errors.Is(err, crypto.ErrUnsupportedAlgorithm),
		errors.Is(err, crypto.ErrInvalidKeyLength),
		errors.Is(err, crypto.ErrInvalidPublicKey),
		errors.Is(err, crypto.ErrInvalidSignature),
		errors.Is(err, crypto.ErrWrongMode),
		errors.Is(err, validate.ErrInvalidHandle),
		errors.Is(err, validate.ErrInvalidLanguageCode),
		errors.Is(err, validate.ErrNameTooLong):
		return http.StatusBadRequest
	case errors.Is(err, crypto.ErrSignatureMismatch):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"status": "error", "message": err.Error()})
}

func writeStoreError(w http.ResponseWriter, err error) {
	writeError(w, errStatus(err), err)
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the underlying writer so streaming handlers are
// not silently buffered behind the status capture.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// pathLabel keeps the metrics label space bounded: the API uses fixed
// paths with query parameters, so the path itself is already low
// cardinality, but anything unmatched collapses to "other".
func pathLabel(path string) string {
	if path == "/" || path == "/metrics" || strings.HasPrefix(path, "/api/v1/") {
		return path
	}
	if strings.HasPrefix(path, "/swagger/") {
		return "/swagger/"
	}
	return "other"
}
