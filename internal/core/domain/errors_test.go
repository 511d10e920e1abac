package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrUnsupportedFileType", ErrUnsupportedFileType},
		{"ErrExtractionEmpty", ErrExtractionEmpty},
		{"ErrIndexNotFound", ErrIndexNotFound},
		{"ErrCapabilityFailure", ErrCapabilityFailure},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrIndexNotFound_DistinctFromCapabilityFailure(t *testing.T) {
	wrapped := fmt.Errorf("retrieve: %w", ErrIndexNotFound)

	assert.True(t, errors.Is(wrapped, ErrIndexNotFound))
	assert.False(t, errors.Is(wrapped, ErrCapabilityFailure))
}

func TestErrCapabilityFailure_DoubleWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("%w: embed: %w", ErrCapabilityFailure, cause)

	assert.True(t, errors.Is(err, ErrCapabilityFailure))
	assert.True(t, errors.Is(err, cause))
}
