package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sierras-backend/internal/middleware"
	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"

	"github.com/gorilla/mux"
)

// pathID extracts the {id} route variable
func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// queryInt reads an optional integer query parameter
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// queryDate reads an optional YYYY-MM-DD query parameter
func queryDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// ActionLogger records mutating operations in log_acciones. Failures are
// logged and swallowed; auditing never blocks the operation itself.
type ActionLogger struct {
	repo *repositories.LogAccionRepository
}

func NewActionLogger(repo *repositories.LogAccionRepository) *ActionLogger {
	return &ActionLogger{repo: repo}
}

func (l *ActionLogger) log(r *http.Request, actionType, targetType string, targetID *int, description string) {
	if l == nil || l.repo == nil {
		return
	}

	usuarioID, _ := middleware.GetUsuarioIDFromContext(r.Context())
	ip := getClientIP(r)

	entry := &models.LogAccion{
		UsuarioID:   usuarioID,
		ActionType:  actionType,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
		IPAddress:   &ip,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("[Audit] Failed to record action %s/%s: %v", actionType, targetType, err)
	}
}

// empresaScope returns the empresa filter implied by the session: cliente
// users are pinned to their empresa, everyone else sees the requested one.
func empresaScope(r *http.Request) *int {
	if empresaID, ok := middleware.GetEmpresaIDFromContext(r.Context()); ok {
		return &empresaID
	}
	return queryInt(r, "empresa_id")
}
