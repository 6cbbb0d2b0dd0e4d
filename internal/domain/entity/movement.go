package entity

import (
	"fmt"
	"strings"
	"time"
)

// Direction sentido de un movimiento de inventario.
type Direction string

const (
	DirectionIN  Direction = "IN"  // entrada
	DirectionOUT Direction = "OUT" // salida
)

// ParseDirection acepta "IN"/"OUT" sin distinguir mayúsculas.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case DirectionIN:
		return DirectionIN, nil
	case DirectionOUT:
		return DirectionOUT, nil
	}
	return "", fmt.Errorf("dirección de movimiento inválida: %q", s)
}

// Valid indica si la dirección es IN u OUT.
func (d Direction) Valid() bool {
	return d == DirectionIN || d == DirectionOUT
}

// Movement registro inmutable del kardex. Se crea una sola vez dentro de la transacción
// que actualiza el saldo del producto; nunca se actualiza ni se borra.
type Movement struct {
	ID           string
	TenantID     string
	Sequence     int64 // orden de confirmación, creciente
	ProductID    string
	Direction    Direction
	Quantity     int64 // siempre > 0
	Delta        int64 // +Quantity en IN, -Quantity en OUT
	BalanceAfter int64 // saldo del producto justo después de este movimiento
	ReasonID     OptionalID
	ClientID     OptionalID // sólo salidas
	SupplierID   OptionalID // sólo entradas
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}

// MovementDetail movimiento con los nombres de sus referencias resueltos (lectura del kardex).
// Una referencia cuyo destino ya no existe se devuelve ausente.
type MovementDetail struct {
	Movement
	ProductName  string
	ProductSKU   string
	ReasonName   string
	ClientName   string
	SupplierName string
}
