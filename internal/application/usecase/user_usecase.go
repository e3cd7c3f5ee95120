package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

const minPasswordLen = 6

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	ids  ledger.IDSource
	log  *logger.Logger
	cost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, ids ledger.IDSource, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, ids: ids, log: log.Component("users"), cost: bcrypt.DefaultCost}
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return entityToUserResponse(user), nil
}

// Create crea un usuario con la contraseña hasheada. Rol vacío es "user".
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid(0, "username", "es obligatorio")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid(0, "password", fmt.Sprintf("mínimo %d caracteres", minPasswordLen))
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, domain.Invalid(0, "role", "debe ser admin o user")
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uc.ids.NewID(ledger.PrefixUser),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", username).Str("role", role).Msg("usuario creado")
	return entityToUserResponse(user), nil
}

// ChangePassword cambia la contraseña. Un usuario sin rol admin solo puede cambiar la suya.
func (uc *UserUseCase) ChangePassword(ctx context.Context, actorID, actorRole, id, password string) error {
	if actorRole != entity.RoleAdmin && actorID != id {
		return domain.ErrForbidden
	}
	if len(password) < minPasswordLen {
		return domain.Invalid(0, "password", fmt.Sprintf("mínimo %d caracteres", minPasswordLen))
	}
	user, err := uc.mustGet(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return uc.repo.Update(ctx, user)
}

// Rename cambia el nombre de usuario.
func (uc *UserUseCase) Rename(ctx context.Context, id, username string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Invalid(0, "username", "es obligatorio")
	}
	user, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	other, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrUsernameTaken
	}
	user.Username = username
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Delete borra un usuario. No se puede borrar a uno mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.Invalid(0, "id", "no puedes borrar tu propio usuario")
	}
	if _, err := uc.mustGet(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// EnsureAdmin crea el administrador inicial si no hay ningún usuario.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := uc.Create(ctx, dto.CreateUserRequest{Username: username, Password: password, Role: entity.RoleAdmin}); err != nil {
		return false, fmt.Errorf("crear administrador inicial: %w", err)
	}
	return true, nil
}

func (uc *UserUseCase) mustGet(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
