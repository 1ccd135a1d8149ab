package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncorrectPassword_IsUnauthorized(t *testing.T) {
	err := fmt.Errorf("login alice: %w", ErrorIncorrectPassword)

	assert.True(t, errors.Is(err, ErrorIncorrectPassword))
	assert.True(t, errors.Is(err, ErrorUnauthorized))
	assert.False(t, errors.Is(err, ErrorValidation))
	assert.Equal(t, "login alice: incorrect password", err.Error())
}
