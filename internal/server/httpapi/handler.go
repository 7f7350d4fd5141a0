// Package httpapi exposes AuthService, VaultStore and the backup presigner
// over JSON/HTTP.
package httpapi

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"golang.org/x/time/rate"
)

const (
	authBodyLimit  = 64 << 10
	vaultBodyLimit = 8 << 20

	limiterTTL = time.Hour
)

type Authenticator interface {
	Signup(ctx context.Context, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (string, *models.User, error)
	Verify(token string) (*auth.Claims, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type Vault interface {
	Create(ctx context.Context, ownerID, data, iv string) (*models.Record, error)
	List(ctx context.Context, ownerID string) ([]*models.Record, error)
	Update(ctx context.Context, ownerID, id, data, iv string) (*models.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Backups interface {
	PresignUpload(ctx context.Context, ownerID string) (string, string, error)
	PresignDownload(ctx context.Context, ownerID, key string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every HTTP endpoint.
type Handler struct {
	auth    Authenticator
	vault   Vault
	backups Backups
	pinger  Pinger
	logger  logging.Logger
	limiter *multiLimiter
	proxies []netip.Prefix

	secureCookie bool
	validity     time.Duration
}

func NewHandler(cfg *config.Config, a Authenticator, v Vault, b Backups, p Pinger, logger logging.Logger) *Handler {
	logger = logger.With("module", "http")

	// Validate has already rejected malformed entries on the LoadConfig path.
	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		logger.Warn(context.Background(), "ignoring trusted proxies", "error", err)
		proxies = nil
	}

	return &Handler{
		auth:         a,
		vault:        v,
		backups:      b,
		pinger:       p,
		logger:       logger,
		limiter:      newMultiLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst, limiterTTL),
		proxies:      proxies,
		secureCookie: cfg.SecureCookie,
		validity:     cfg.SessionValidity,
	}
}

type userResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

type recordResponse struct {
	ID        string    `json:"_id"`
	Data      string    `json:"data"`
	IV        string    `json:"iv"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRecordResponse(r *models.Record) recordResponse {
	return recordResponse{
		ID:        r.ID,
		Data:      r.Data,
		IV:        r.IV,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
