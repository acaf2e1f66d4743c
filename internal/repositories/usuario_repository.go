package repositories

import (
	"context"
	"errors"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrUsuarioNotFound = errors.New("usuario no encontrado")

type UsuarioRepository struct {
	DB DBTX
}

func NewUsuarioRepository(db DBTX) *UsuarioRepository {
	return &UsuarioRepository{DB: db}
}

func (r *UsuarioRepository) Create(ctx context.Context, usuario *models.Usuario) error {
	query := `
		INSERT INTO usuarios (nombre, email, password_hash, rol, empresa_id, activo)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, activo, creado_en, actualizado_en
	`

	return r.DB.QueryRow(ctx, query,
		usuario.Nombre, usuario.Email, usuario.PasswordHash, usuario.Rol, usuario.EmpresaID,
	).Scan(&usuario.ID, &usuario.IsActive, &usuario.CreatedAt, &usuario.UpdatedAt)
}

func (r *UsuarioRepository) Get(ctx context.Context, id int) (*models.Usuario, error) {
	query := `
		SELECT id, nombre, email, password_hash, rol, empresa_id, activo, creado_en, actualizado_en
		FROM usuarios
		WHERE id = $1
	`

	usuario := &models.Usuario{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&usuario.ID, &usuario.Nombre, &usuario.Email, &usuario.PasswordHash,
		&usuario.Rol, &usuario.EmpresaID, &usuario.IsActive,
		&usuario.CreatedAt, &usuario.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}

	return usuario, nil
}

func (r *UsuarioRepository) GetByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	query := `
		SELECT id, nombre, email, password_hash, rol, empresa_id, activo, creado_en, actualizado_en
		FROM usuarios
		WHERE email = $1
	`

	usuario := &models.Usuario{}
	err := r.DB.QueryRow(ctx, query, email).Scan(
		&usuario.ID, &usuario.Nombre, &usuario.Email, &usuario.PasswordHash,
		&usuario.Rol, &usuario.EmpresaID, &usuario.IsActive,
		&usuario.CreatedAt, &usuario.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}

	return usuario, nil
}

func (r *UsuarioRepository) List(ctx context.Context) ([]*models.Usuario, error) {
	query := `
		SELECT id, nombre, email, password_hash, rol, empresa_id, activo, creado_en, actualizado_en
		FROM usuarios
		ORDER BY nombre ASC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []*models.Usuario
	for rows.Next() {
		usuario := &models.Usuario{}
		err := rows.Scan(
			&usuario.ID, &usuario.Nombre, &usuario.Email, &usuario.PasswordHash,
			&usuario.Rol, &usuario.EmpresaID, &usuario.IsActive,
			&usuario.CreatedAt, &usuario.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, usuario)
	}

	return usuarios, rows.Err()
}

func (r *UsuarioRepository) Update(ctx context.Context, id int, usuario *models.Usuario) error {
	query := `
		UPDATE usuarios
		SET nombre = $1, email = $2, rol = $3, empresa_id = $4, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	tag, err := r.DB.Exec(ctx, query, usuario.Nombre, usuario.Email, usuario.Rol, usuario.EmpresaID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}

func (r *UsuarioRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `
		UPDATE usuarios
		SET password_hash = $1, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	tag, err := r.DB.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}

// ToggleActive flips the account's activo flag (suspend / resume)
func (r *UsuarioRepository) ToggleActive(ctx context.Context, id int) error {
	query := `
		UPDATE usuarios
		SET activo = NOT activo, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}
