package bonus

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
)

type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
}

// Accessor reads the loyalty bonus catalog and files claims.
type Accessor struct {
	api    API
	userID string
}

func New(api API, userID string) *Accessor {
	return &Accessor{api: api, userID: userID}
}

func (a *Accessor) Catalog(ctx context.Context) ([]domain.Bonus, error) {
	var out []domain.Bonus
	err := a.api.GetJSON(ctx, "/bonus", &out)
	if err != nil && !errors.Is(err, rest.ErrNotFound) {
		return nil, err
	}
	return out, nil
}

func (a *Accessor) Claim(ctx context.Context, bonusID string) error {
	req := domain.BonusRequest{UserID: a.userID, BonusID: bonusID}
	if err := a.api.PostJSON(ctx, "/bonus-request", req, nil); err != nil {
		return fmt.Errorf("claim bonus: %w", err)
	}
	return nil
}
