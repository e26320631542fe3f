package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	t.Parallel()

	type request struct {
		Message string `json:"message" validate:"required,notblank,max=5"`
	}

	v := NewValidator()
	assert.NoError(t, v.Validate(request{Message: "hi"}))
	assert.ErrorContains(t, v.Validate(request{Message: "   "}), "notblank")
	assert.ErrorContains(t, v.Validate(request{Message: "too long"}), "'message'")
}
