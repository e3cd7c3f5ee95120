package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType dirección de un movimiento de stock.
type TransactionType string

const (
	TransactionInbound  TransactionType = "INBOUND"
	TransactionOutbound TransactionType = "OUTBOUND"
)

// Valid indica si el tipo es INBOUND u OUTBOUND.
func (t TransactionType) Valid() bool {
	return t == TransactionInbound || t == TransactionOutbound
}

// Transaction registro inmutable del libro de movimientos.
// Quantity siempre es positiva; la dirección la da Type.
// ItemName es una foto del nombre al momento del movimiento y no se actualiza.
type Transaction struct {
	ID        string
	ItemID    string
	ItemName  string
	Type      TransactionType
	Quantity  decimal.Decimal
	Timestamp time.Time
	User      string
	Notes     string
}

// Effect efecto con signo sobre la cantidad del artículo.
func (t *Transaction) Effect() decimal.Decimal {
	if t.Type == TransactionOutbound {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// ReverseEffect efecto necesario para deshacer la transacción.
func (t *Transaction) ReverseEffect() decimal.Decimal {
	return t.Effect().Neg()
}
