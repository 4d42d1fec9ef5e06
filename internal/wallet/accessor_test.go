package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/rest"
	"github.com/Tchindavaldo/yaammoo-core/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	get func(path string, out any) error
}

func (f *fakeAPI) GetJSON(_ context.Context, path string, out any) error {
	return f.get(path, out)
}

func TestBalanceAndSpend(t *testing.T) {
	api := &fakeAPI{get: func(path string, out any) error {
		assert.Equal(t, "/transaction/u1", path)
		*(out.(*[]domain.Transaction)) = []domain.Transaction{
			{Type: domain.Credit, Amount: 1000},
			{Type: domain.Debit, Amount: 300},
			{Type: domain.Credit, Amount: 200},
		}
		return nil
	}}
	acc := wallet.New(api, "u1")

	require.NoError(t, acc.Fetch(context.Background()))
	assert.Equal(t, 900.0, acc.Balance())
	assert.Equal(t, 300.0, acc.TotalSpend())
}

func TestLedgerSurvivesFailedFetch(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{get: func(_ string, out any) error {
		*(out.(*[]domain.Transaction)) = []domain.Transaction{{Type: domain.Credit, Amount: 50}}
		return nil
	}}
	acc := wallet.New(api, "u1")
	require.NoError(t, acc.Fetch(ctx))

	api.get = func(string, any) error { return errors.New("offline") }
	require.Error(t, acc.Fetch(ctx))
	assert.Equal(t, 50.0, acc.Balance())
	assert.Contains(t, acc.LastError(), "offline")

	api.get = func(string, any) error { return rest.ErrNotFound }
	require.NoError(t, acc.Fetch(ctx))
	assert.Zero(t, acc.Balance())
}
