package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type preferencesService struct {
	prefs    PreferencesStore
	accounts AccountStore
	cache    *querycache.Cache
}

func NewPreferencesService(prefs PreferencesStore, accounts AccountStore, cache *querycache.Cache) *preferencesService {
	return &preferencesService{prefs: prefs, accounts: accounts, cache: cache}
}

// GetPreferences returns the saved preferences, or the defaults when the user
// has never saved any.
func (s *preferencesService) GetPreferences(ctx context.Context, uid string) (*models.Preferences, error) {
	p, err := querycache.Fetch(ctx, s.cache, querycache.PreferencesKey(uid),
		func(ctx context.Context) (models.Preferences, error) {
			p, err := s.prefs.Get(ctx, uid)
			if err != nil {
				if isNotFound(err) {
					return models.DefaultPreferences(), nil
				}
				return models.Preferences{}, err
			}
			return *p, nil
		})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePreferences creates the user's preferences on first save and replaces
// them afterwards.
func (s *preferencesService) SavePreferences(ctx context.Context, uid string, req dto.PreferencesRequest) (*models.Preferences, error) {
	currency, err := normalizeCurrency(req.BaseCurrency)
	if err != nil {
		return nil, err
	}

	week := models.WeekStart(strings.ToUpper(strings.TrimSpace(string(req.WeekStartsOn))))
	if week == "" {
		week = models.WeekStartsMonday
	}
	if !week.Valid() {
		return nil, errs.NewValidationError("weekStartsOn must be MON or SUN")
	}

	income := ledger.RoundMoney(helpers.ValueOr(req.MonthlyIncome, decimal.Zero))
	allowance := ledger.RoundMoney(helpers.ValueOr(req.MonthlyAllowance, decimal.Zero))
	if income.IsNegative() || allowance.IsNegative() {
		return nil, errs.NewValidationError("monthly amounts cannot be negative")
	}

	defaultAccount := helpers.NilIfBlank(req.DefaultAccountID)
	if defaultAccount != nil {
		if _, err := activeAccount(ctx, s.accounts, uid, *defaultAccount); err != nil {
			return nil, err
		}
	}

	p := &models.Preferences{
		BaseCurrency:     currency,
		MonthlyIncome:    income,
		MonthlyAllowance: allowance,
		DefaultAccountID: defaultAccount,
		WeekStartsOn:     week,
	}
	_, err = querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.prefs.Save(ctx, uid, p)
	}, querycache.PreferencesKey(uid))
	if err != nil {
		logger.FromContext(ctx).Error("failed to save preferences", "error", err)
		return nil, err
	}
	return p, nil
}
