package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "no existe")))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnexpected, KindOf(nil))

	// 包装不改变类别
	wrapped := fmt.Errorf("context: %w", New(KindOutOfStock, "sin stock"))
	assert.Equal(t, KindOutOfStock, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindOutOfStock))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindStorage, "almacenamiento no disponible", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage_unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWithFields(t *testing.T) {
	err := WithFields("error de validación", map[string][]string{
		"email": {"debe ser un correo válido"},
	})

	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Fields, "email")
}
