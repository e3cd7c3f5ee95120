package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
)

// UserHandler gestión de usuarios. Todo es de admin salvo cambiar la propia contraseña.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, password, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Description  Cualquier usuario puede cambiar la suya; la de otros solo un admin.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                     true  "id del usuario"
// @Param        body  body  dto.ChangePasswordRequest  true  "password"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"), in.Password); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Rename godoc
// @Summary      Renombrar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id del usuario"
// @Param        body  body  dto.RenameUserRequest  true  "username"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/users/{id}/username [put]
func (h *UserHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Rename(c.UserContext(), c.Params("id"), in.Username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar usuario
// @Description  Un usuario no puede borrarse a sí mismo.
// @Tags         users
// @Security     Bearer
// @Param        id  path  string  true  "id del usuario"
// @Success      204
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
