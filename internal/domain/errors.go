package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya existe")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPersistence       = errors.New("fallo de persistencia")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
)

// ValidationError describe una entrada rechazada antes de cualquier escritura.
// Row es 1-based dentro del lote; 0 cuando la operación no es por filas.
type ValidationError struct {
	Row    int
	Field  string
	Reason string
	Err    error // causa: ErrInvalidInput por defecto
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("fila %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// Invalid construye un ValidationError con causa ErrInvalidInput.
func Invalid(row int, field, reason string) *ValidationError {
	return &ValidationError{Row: row, Field: field, Reason: reason, Err: ErrInvalidInput}
}

// AdapterError envuelve un fallo del almacenamiento ocurrido a mitad de una operación.
// Las escrituras anteriores al fallo quedan confirmadas; no hay rollback.
type AdapterError struct {
	Op        string   // operación lógica: add_item, batch_transaction, batch_undo, import, reset_stock
	Step      string   // llamada que falló: put_item, insert_transaction, delete_transactions...
	Row       int      // fila 1-based cuando aplica
	Completed int      // pasos confirmados antes del fallo
	Pending   []string // ids de transacciones que quedaron sin borrar
	Err       error
}

func (e *AdapterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: fallo en %s", e.Op, e.Step)
	if e.Row > 0 {
		fmt.Fprintf(&b, " (fila %d)", e.Row)
	}
	fmt.Fprintf(&b, " tras %d pasos confirmados", e.Completed)
	if len(e.Pending) > 0 {
		fmt.Fprintf(&b, ", %d transacciones pendientes de borrar", len(e.Pending))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrPersistence) sobre cualquier AdapterError.
func (e *AdapterError) Is(target error) bool { return target == ErrPersistence }

// OrphanReference no es un error: una transacción deshecha cuyo artículo ya no existe.
// Se borra el registro pero no hay cantidad que ajustar.
type OrphanReference struct {
	TransactionID string
	ItemID        string
}
