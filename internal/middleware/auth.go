package middleware

import (
	"context"
	"net/http"
	"strings"

	"sierras-backend/internal/auth"
	"sierras-backend/internal/repositories"
)

type contextKey string

const UsuarioIDKey contextKey = "usuario_id"
const EmailKey contextKey = "email"
const RolKey contextKey = "rol"
const EmpresaIDKey contextKey = "empresa_id"

type AuthMiddleware struct {
	jwtManager  *auth.JWTManager
	usuarioRepo *repositories.UsuarioRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, usuarioRepo *repositories.UsuarioRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		usuarioRepo: usuarioRepo,
	}
}

// authenticate resolves the Bearer token to a current usuario. The usuario
// record is re-read from the database so deactivation and role changes
// apply immediately, not on token expiry.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	usuario, err := m.usuarioRepo.Get(r.Context(), claims.UsuarioID)
	if err != nil {
		http.Error(w, "Usuario not found", http.StatusUnauthorized)
		return nil, false
	}

	if !usuario.IsActive {
		http.Error(w, "Cuenta desactivada. Contacte al administrador.", http.StatusForbidden)
		return nil, false
	}

	ctx := context.WithValue(r.Context(), UsuarioIDKey, usuario.ID)
	ctx = context.WithValue(ctx, EmailKey, usuario.Email)
	ctx = context.WithValue(ctx, RolKey, usuario.Rol)
	if usuario.EmpresaID != nil {
		ctx = context.WithValue(ctx, EmpresaIDKey, *usuario.EmpresaID)
	}

	return r.WithContext(ctx), true
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the usuario has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			rol, _ := GetRolFromContext(r.Context())
			hasRole := false
			for _, allowed := range allowedRoles {
				if rol == allowed {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUsuarioIDFromContext extracts usuario ID from request context
func GetUsuarioIDFromContext(ctx context.Context) (int, bool) {
	usuarioID, ok := ctx.Value(UsuarioIDKey).(int)
	return usuarioID, ok
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRolFromContext extracts the role from request context
func GetRolFromContext(ctx context.Context) (string, bool) {
	rol, ok := ctx.Value(RolKey).(string)
	return rol, ok
}

// GetEmpresaIDFromContext extracts the tenant scope of a cliente usuario.
// Absent for gerente and administrador users, who see every empresa.
func GetEmpresaIDFromContext(ctx context.Context) (int, bool) {
	empresaID, ok := ctx.Value(EmpresaIDKey).(int)
	return empresaID, ok
}
