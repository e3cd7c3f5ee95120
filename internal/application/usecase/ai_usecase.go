package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/application/ports"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// recentForAnalysis movimientos que acompañan al inventario en el prompt.
const recentForAnalysis = 10

// ErrAIUnavailable no hay proveedor de IA configurado.
var ErrAIUnavailable = errors.New("análisis IA no configurado")

// InventoryReader lecturas del estado de inventario que usan los casos de uso de consulta.
type InventoryReader interface {
	ListItems(f inventory.ItemFilter) []entity.InventoryItem
	ListTransactions(f inventory.TransactionFilter) []entity.Transaction
}

// AIUseCase orquesta el análisis de inventario asistido por IA.
type AIUseCase struct {
	llm     ports.LLMService
	inv     InventoryReader
	timeout time.Duration
}

// NewAIUseCase construye el caso de uso. llm puede ser nil: el análisis devuelve
// ErrAIUnavailable.
func NewAIUseCase(llm ports.LLMService, inv InventoryReader) *AIUseCase {
	return &AIUseCase{llm: llm, inv: inv, timeout: 20 * time.Second}
}

// AnalyzeInventory envía el inventario y los últimos movimientos al modelo.
func (uc *AIUseCase) AnalyzeInventory(ctx context.Context) (*dto.AIAnalysisResponse, error) {
	if uc.llm == nil {
		return nil, ErrAIUnavailable
	}
	snap := ports.InventorySnapshot{
		Items:  uc.inv.ListItems(inventory.ItemFilter{}),
		Recent: uc.inv.ListTransactions(inventory.TransactionFilter{Limit: recentForAnalysis}),
	}
	if len(snap.Items) == 0 {
		return nil, domain.Invalid(0, "items", "el inventario está vacío")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	text, err := uc.llm.AnalyzeInventory(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("análisis IA: %w", err)
	}
	return &dto.AIAnalysisResponse{Analysis: strings.TrimSpace(text), Provider: uc.llm.Provider()}, nil
}
