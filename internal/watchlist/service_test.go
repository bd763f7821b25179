package watchlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/papertrade/internal/store"
	"github.com/finchley/papertrade/internal/store/storetest"
)

func seed(t *testing.T, db *store.Store) *store.User {
	t.Helper()

	user := &store.User{Email: "trader@example.com", Username: "trader", HashedPassword: "x"}
	require.NoError(t, db.CreateUser(user))
	require.NoError(t, db.CreateStock(&store.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: 178.50, PreviousClose: 176.00,
	}))
	return user
}

func TestAddAndList(t *testing.T) {
	db := storetest.New(t)
	svc := NewService(db)
	user := seed(t, db)

	item, err := svc.Add(user, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", item.Symbol)

	items, err := svc.List(user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AAPL", items[0].Symbol)
}

func TestAddUnknownSymbol(t *testing.T) {
	db := storetest.New(t)
	svc := NewService(db)
	user := seed(t, db)

	_, err := svc.Add(user, "ZZZZ")
	assert.ErrorIs(t, err, ErrStockNotFound)
}

func TestAddDuplicate(t *testing.T) {
	db := storetest.New(t)
	svc := NewService(db)
	user := seed(t, db)

	_, err := svc.Add(user, "AAPL")
	require.NoError(t, err)

	_, err = svc.Add(user, "AAPL")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRemove(t *testing.T) {
	db := storetest.New(t)
	svc := NewService(db)
	user := seed(t, db)

	_, err := svc.Add(user, "AAPL")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(user, "aapl"))
	assert.ErrorIs(t, svc.Remove(user, "AAPL"), ErrNotOnList)

	items, err := svc.List(user)
	require.NoError(t, err)
	assert.Empty(t, items)
}
