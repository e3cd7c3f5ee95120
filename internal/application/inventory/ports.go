package inventory

import "time"

// Resultados registrados por operación.
const (
	OutcomeOK         = "ok"
	OutcomeDegraded   = "degraded"
	OutcomeValidation = "validation_error"
	OutcomeAdapter    = "adapter_error"
)

// Metrics puerto de métricas del motor de inventario (lo implementa el adaptador Prometheus).
type Metrics interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	SetStockLevels(items, lowStock int)
}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) ObserveOperation(string, string, time.Duration) {}
func (NopMetrics) SetStockLevels(int, int)                        {}
