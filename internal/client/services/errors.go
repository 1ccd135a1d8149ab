package services

import (
	"fmt"

	"github.com/dmitrijs2005/vignaraja/internal/common"
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func unauthorized(action string) error {
	return fmt.Errorf("%w: %s", common.ErrorUnauthorized, action)
}
