package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrCorruptPersistedState", ErrCorruptPersistedState},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrStoreClosed", ErrStoreClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestUnsupportedFormatError(t *testing.T) {
	err := fmt.Errorf("load: %w", &UnsupportedFormatError{Extension: ".xls"})

	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, "load: unsupported file type: .xls", err.Error())
	assert.Equal(t, "unsupported file type: (none)", (&UnsupportedFormatError{}).Error())
}

func TestDimensionMismatchError(t *testing.T) {
	err := fmt.Errorf("add: %w", &DimensionMismatchError{Expected: 3, Got: 4})

	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var dme *DimensionMismatchError
	assert.True(t, errors.As(err, &dme))
	assert.Equal(t, 3, dme.Expected)
	assert.Equal(t, 4, dme.Got)
}
