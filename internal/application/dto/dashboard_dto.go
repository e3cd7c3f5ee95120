package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	TotalItems    int             `json:"totalItems"`
	TotalUnits    decimal.Decimal `json:"totalUnits"`
	TotalValue    decimal.Decimal `json:"totalValue"` // Σ cantidad × precio
	LowStockCount int             `json:"lowStockCount"`
	InboundCount  int             `json:"inboundCount"`
	OutboundCount int             `json:"outboundCount"`

	LowStock           []LowStockDTO         `json:"lowStock"`
	Categories         []CategoryCountDTO    `json:"categories"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

// LowStockDTO artículo en stock bajo con cantidad sugerida de pedido.
type LowStockDTO struct {
	ItemID            string          `json:"itemId"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	MinStockLevel     decimal.Decimal `json:"minStockLevel"`
	SuggestedOrderQty decimal.Decimal `json:"suggestedOrderQty"` // mínimo × 1.5 − cantidad
	EstimatedCost     decimal.Decimal `json:"estimatedCost"`     // sugerido × precio
}

// CategoryCountDTO artículos por categoría, con su color para el gráfico.
type CategoryCountDTO struct {
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Items int             `json:"items"`
	Units decimal.Decimal `json:"units"`
}

// AIAnalysisResponse análisis generado por el modelo, en Markdown.
type AIAnalysisResponse struct {
	Analysis string `json:"analysis"`
	Provider string `json:"provider"`
}
