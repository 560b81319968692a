package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

// normalizeCurrency upper-cases a 3-letter code, falling back to the default
// when blank.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.DefaultCurrency, nil
	}
	if len(code) != 3 {
		return "", errs.NewValidationError(fmt.Sprintf("currency %q must be a 3-letter code", code))
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", errs.NewValidationError(fmt.Sprintf("currency %q must be a 3-letter code", code))
		}
	}
	return code, nil
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}

// activeAccount loads an account that new or moved transactions may point at.
func activeAccount(ctx context.Context, store AccountStore, uid, accountID string) (*models.Account, error) {
	a, err := store.Get(ctx, uid, accountID)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewValidationError(fmt.Sprintf("account %s does not exist", accountID))
		}
		return nil, err
	}
	if a.Archived {
		return nil, errs.NewValidationError(fmt.Sprintf("account %s is archived", accountID))
	}
	return a, nil
}
