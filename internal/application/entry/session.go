// Package entry implementa las sesiones del formulario de entradas y salidas,
// incluido el alta rápida de artículos sin salir del formulario.
package entry

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// Phase estado del alta rápida dentro de la sesión.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePendingCreate Phase = "pending_create"
)

// Row fila del formulario. Quantity es texto tal como lo escribió el operador.
type Row struct {
	ItemID   string `json:"itemId"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
	Search   string `json:"search"`
}

// Blank fila sin artículo ni cantidad; Submit la ignora.
func (r Row) Blank() bool {
	return strings.TrimSpace(r.ItemID) == "" && strings.TrimSpace(r.Quantity) == ""
}

// PendingCreate borrador de alta rápida: nombre buscado y cantidad de la fila.
type PendingCreate struct {
	Row      int    `json:"row"` // 1-based
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Session borrador de un lote en curso. Overlay guarda los artículos creados por alta
// rápida hasta el siguiente envío correcto. Unrecorded guarda transacciones cuyo
// artículo ya se escribió pero cuyo registro falló; el siguiente envío las registra.
type Session struct {
	ID         string                 `json:"id"`
	User       string                 `json:"user"`
	Type       entity.TransactionType `json:"type"`
	Rows       []Row                  `json:"rows"`
	Phase      Phase                  `json:"phase"`
	Pending    *PendingCreate         `json:"pending,omitempty"`
	Overlay    []entity.InventoryItem `json:"overlay,omitempty"`
	Unrecorded []entity.Transaction   `json:"unrecorded,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// SessionStore guarda sesiones con caducidad. Get devuelve (nil, nil) si la sesión no
// existe o caducó; Save renueva la caducidad.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
