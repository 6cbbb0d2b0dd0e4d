package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "Tornillo 3 mm", Name("  Tornillo   3\tmm "))
	assert.Equal(t, "", Name("   "))
	// "e" + acento combinante -> "é" precompuesta
	assert.Equal(t, "Caf\u00e9", Name("Cafe\u0301"))
}

func TestKey_IgnoraMayusculasYAcentosCompuestos(t *testing.T) {
	assert.Equal(t, Key("CAF\u00c9"), Key(" caf\u00e9 "))
	assert.Equal(t, Key("Cafe\u0301"), Key("caf\u00e9"))
	assert.NotEqual(t, Key("cafe"), Key("caf\u00e9"))
	assert.True(t, Equal("Ajuste  Inventario", "ajuste inventario"))
}
