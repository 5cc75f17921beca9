package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/filecrate/internal/logging"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
)

// AccountService is the slice of UserService the HTTP layer needs.
type AccountService interface {
	Register(ctx context.Context, username, email, password, role string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// FileService is the slice of StorageService the HTTP layer needs.
type FileService interface {
	Upload(ctx context.Context, identity *models.User, fileName string, r io.Reader) (*models.File, error)
	Download(ctx context.Context, identity *models.User, fileName string) (io.ReadCloser, *models.File, error)
	DownloadByID(ctx context.Context, identity *models.User, fileID int64, asAdmin bool) (io.ReadCloser, *models.File, error)
	Remove(ctx context.Context, identity *models.User, fileID int64, asAdmin bool) error
	List(ctx context.Context, identity *models.User, asAdmin bool) ([]models.FileView, error)
}

// AccountAdminService is the slice of AdminService the HTTP layer needs.
type AccountAdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, actingAdmin *models.User, targetID int64) error
}

// Authorizer resolves bearer tokens into identities.
type Authorizer interface {
	RequireAuthenticated(ctx context.Context, token string) (*models.User, error)
	RequireRole(ctx context.Context, token, role string) (*models.User, error)
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Router wires the HTTP surface to the service layer.
type Router struct {
	mux    *http.ServeMux
	logger logging.Logger

	guard    Authorizer
	accounts AccountService
	files    FileService
	admin    AccountAdminService
	pinger   Pinger

	loginLimiter *ipRateLimiter
}

// NewRouter builds the full route table. Login attempts are rate limited
// per client IP; everything else relies on authentication alone.
func NewRouter(guard Authorizer, accounts AccountService, files FileService, admin AccountAdminService, pinger Pinger, logger logging.Logger) *Router {
	rt := &Router{
		mux:          http.NewServeMux(),
		logger:       logger.With("module", "httpapi"),
		guard:        guard,
		accounts:     accounts,
		files:        files,
		admin:        admin,
		pinger:       pinger,
		loginLimiter: newIPRateLimiter(10, 10),
	}

	rt.mux.HandleFunc("POST /api/auth/register", rt.handleRegister)
	rt.mux.Handle("POST /api/auth/login",
		chain(http.HandlerFunc(rt.handleLogin), rateLimitByIP(rt.loginLimiter)))
	rt.mux.HandleFunc("GET /api/auth/me", rt.handleMe)

	rt.mux.HandleFunc("POST /api/files", rt.handleUpload)
	rt.mux.HandleFunc("GET /api/files", rt.handleList)
	rt.mux.HandleFunc("GET /api/files/download", rt.handleDownloadByName)
	rt.mux.HandleFunc("GET /api/files/{id}", rt.handleDownloadByID)
	rt.mux.HandleFunc("DELETE /api/files/{id}", rt.handleRemove)

	rt.mux.HandleFunc("GET /api/admin/users", rt.handleAdminListUsers)
	rt.mux.HandleFunc("DELETE /api/admin/users/{id}", rt.handleAdminDeleteUser)
	rt.mux.HandleFunc("GET /api/admin/files", rt.handleAdminListFiles)

	rt.mux.HandleFunc("GET /healthz", rt.handleHealth)

	return rt
}

// ServeHTTP applies the global middleware chain and dispatches.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chain(rt.mux, withLogging(rt.logger)).ServeHTTP(w, r)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := rt.pinger.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
