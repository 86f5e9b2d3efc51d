package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ventas/src/catalog/domain/entity"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/database"
)

// UserPostgresRepository implementa UserRepository usando PostgreSQL
type UserPostgresRepository struct {
	db database.DBTX
}

// NewUserPostgresRepository crea una nueva instancia del repositorio
func NewUserPostgresRepository(db database.DBTX) *UserPostgresRepository {
	return &UserPostgresRepository{db: db}
}

// FindByID busca un usuario por su ID
func (r *UserPostgresRepository) FindByID(ctx context.Context, id int) (*entity.User, error) {
	query := `
		SELECT id_usuario, nombre, COALESCE(email, ''), COALESCE(rol, '')
		FROM usuarios
		WHERE id_usuario = $1
	`

	user := &entity.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Usuario", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return user, nil
}
