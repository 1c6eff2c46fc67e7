package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"not found", NewResourceNotFound("Campanhas.csv"), "[RESOURCE_NOT_FOUND] resource not found: Campanhas.csv"},
		{"schema", NewSchemaMismatch("Dispositivos", "Custo"), `[SCHEMA_MISMATCH] source Dispositivos is missing column "Custo"`},
		{"value", NewValueParseError("Campanhas", "Custo", "abc", nil), `[VALUE_PARSE_FAILURE] source Campanhas column "Custo" has invalid value "abc"`},
		{"with cause", NewProcessingError("Dia", fmt.Errorf("boom")), "[PROCESSING] error processing Dia: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTypeOfWrapped(t *testing.T) {
	base := NewSchemaMismatch("Hora", "Impressões")
	wrapped := fmt.Errorf("normalize: %w", base)

	assert.Equal(t, ErrTypeSchemaMismatch, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrTypeSchemaMismatch))
	assert.False(t, IsType(wrapped, ErrTypeResourceNotFound))
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("plain")))
}

func TestFatal(t *testing.T) {
	assert.True(t, NewResourceNotFound("x").Fatal())
	assert.False(t, NewLookupMiss("Dispositivos", "Smartphones").Fatal())
}

func TestContext(t *testing.T) {
	err := NewValueParseError("Palavras_Chave", "CTR", "1,2,3%", nil)
	assert.Equal(t, "Palavras_Chave", err.Context["source"])
	assert.Equal(t, "CTR", err.Context["column"])
	assert.Equal(t, "1,2,3%", err.Context["value"])
}
