package entity

import (
	"encoding/json"
	"strings"
)

// OptionalID referencia opcional a otra entidad del tenant (categoría, proveedor, cliente, motivo).
// El valor cero es "sin referencia". Los formularios envían "none" o "" para indicar
// "sin selección"; ParseOptionalID los convierte en ausencia y nunca llegan a la BD.
type OptionalID struct {
	id    string
	valid bool
}

// noneSentinels valores que el cliente usa para "sin selección".
var noneSentinels = map[string]struct{}{
	"":     {},
	"none": {},
	"null": {},
}

// NoID referencia ausente.
var NoID = OptionalID{}

// SomeID referencia presente. Un id vacío produce ausencia.
func SomeID(id string) OptionalID {
	return ParseOptionalID(id)
}

// ParseOptionalID normaliza el valor recibido en el borde (HTTP, formularios).
func ParseOptionalID(raw string) OptionalID {
	v := strings.TrimSpace(raw)
	if _, ok := noneSentinels[strings.ToLower(v)]; ok {
		return OptionalID{}
	}
	return OptionalID{id: v, valid: true}
}

// OptionalIDFromPtr construye desde una columna NULLable.
func OptionalIDFromPtr(p *string) OptionalID {
	if p == nil {
		return OptionalID{}
	}
	return ParseOptionalID(*p)
}

// Valid indica si hay referencia.
func (o OptionalID) Valid() bool { return o.valid }

// ID devuelve el id referenciado o "" si está ausente.
func (o OptionalID) ID() string { return o.id }

// Ptr devuelve nil si está ausente; útil para columnas NULL.
func (o OptionalID) Ptr() *string {
	if !o.valid {
		return nil
	}
	id := o.id
	return &id
}

func (o OptionalID) String() string {
	if !o.valid {
		return "none"
	}
	return o.id
}

// MarshalJSON serializa la ausencia como null.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.id)
}

// UnmarshalJSON acepta null, "", "none" o un id.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = ParseOptionalID(s)
	return nil
}
