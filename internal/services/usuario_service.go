package services

import (
	"context"
	"errors"

	"sierras-backend/internal/auth"
	"sierras-backend/internal/cache"
	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

var ErrCredencialesInvalidas = errors.New("email o contraseña incorrectos")

// Roles conocidos por el sistema. Cliente users are scoped to one empresa
// and only see their own sierras and afilados.
const (
	RolGerente       = "gerente"
	RolAdministrador = "administrador"
	RolCliente       = "cliente"
)

func rolValido(rol string) bool {
	return rol == RolGerente || rol == RolAdministrador || rol == RolCliente
}

type UsuarioService struct {
	Repo       *repositories.UsuarioRepository
	JWTManager *auth.JWTManager
}

func NewUsuarioService(repo *repositories.UsuarioRepository, jwtManager *auth.JWTManager) *UsuarioService {
	return &UsuarioService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Login authenticates a usuario and returns a JWT token. Verified
// credentials are cached briefly so repeated logins skip the bcrypt cost.
func (s *UsuarioService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email y contraseña son obligatorios")
	}

	usuario, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if !usuario.IsActive {
		return nil, errors.New("el usuario está desactivado")
	}

	if cachedID, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok || int(cachedID) != usuario.ID {
		if !auth.VerifyPassword(usuario.PasswordHash, req.Password) {
			return nil, ErrCredencialesInvalidas
		}
		cache.CacheAuth(ctx, req.Email, req.Password, int64(usuario.ID))
	}

	token, err := s.JWTManager.GenerateToken(usuario)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:   token,
		Usuario: usuario,
	}, nil
}

// CreateUsuario registers a new usuario with a hashed password
func (s *UsuarioService) CreateUsuario(ctx context.Context, req *models.CreateUsuarioRequest) (*models.Usuario, error) {
	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("nombre, email y contraseña son obligatorios")
	}
	if !rolValido(req.Rol) {
		return nil, errors.New("rol desconocido")
	}
	if req.Rol == RolCliente && req.EmpresaID == nil {
		return nil, errors.New("un usuario cliente necesita empresa_id")
	}

	existing, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("ya existe un usuario con ese email")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	usuario := &models.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Rol:          req.Rol,
		EmpresaID:    req.EmpresaID,
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}

// GetUsuario retrieves one usuario
func (s *UsuarioService) GetUsuario(ctx context.Context, id int) (*models.Usuario, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsuarios returns all usuarios
func (s *UsuarioService) ListUsuarios(ctx context.Context) ([]*models.Usuario, error) {
	return s.Repo.List(ctx)
}

// UpdateUsuario updates profile data and, if a password is sent, rehashes it
func (s *UsuarioService) UpdateUsuario(ctx context.Context, id int, req *models.UpdateUsuarioRequest) (*models.Usuario, error) {
	if !rolValido(req.Rol) {
		return nil, errors.New("rol desconocido")
	}
	if req.Rol == RolCliente && req.EmpresaID == nil {
		return nil, errors.New("un usuario cliente necesita empresa_id")
	}

	usuario, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldEmail := usuario.Email

	usuario.Nombre = req.Nombre
	usuario.Email = req.Email
	usuario.Rol = req.Rol
	usuario.EmpresaID = req.EmpresaID

	if err := s.Repo.Update(ctx, id, usuario); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.UpdatePassword(ctx, id, hashedPassword); err != nil {
			return nil, err
		}
		// Cached logins for the old password must die immediately.
		cache.InvalidateAuth(ctx, oldEmail)
		cache.InvalidateAuth(ctx, usuario.Email)
	}

	return usuario, nil
}

// ToggleActive flips the activo flag of a usuario
func (s *UsuarioService) ToggleActive(ctx context.Context, id int) error {
	return s.Repo.ToggleActive(ctx, id)
}
