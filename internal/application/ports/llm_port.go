package ports

import (
	"context"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// InventorySnapshot datos que se envían al modelo: inventario completo y los últimos
// movimientos (más reciente primero).
type InventorySnapshot struct {
	Items  []entity.InventoryItem
	Recent []entity.Transaction
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz.
type LLMService interface {
	// AnalyzeInventory devuelve un informe ejecutivo en Markdown: alertas críticas,
	// recomendaciones de reposición, observaciones de uso y un consejo de optimización.
	// El contexto debe llevar un timeout.
	AnalyzeInventory(ctx context.Context, snap InventorySnapshot) (string, error)
	// Provider nombre del proveedor para logs y respuestas.
	Provider() string
}
