package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/core/query"
)

type singleUser struct {
	row query.Row
}

func (s singleUser) SelectOne(_ context.Context, _ string, cond query.Condition) (query.Row, error) {
	if cond.Where["email"] != s.row["email"] {
		return nil, query.ErrNotFound
	}
	return query.Row{"email": s.row["email"], "password": s.row["password"], "active": true}, nil
}

func TestLookup_ComparesPasswordForUnknownUsers(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		hashes []string
	)
	a := New(singleUser{row: query.Row{"email": "alice@example.com", "password": "stored-hash"}}, nil)
	a.checkPassword = func(_, hash string) bool {
		mu.Lock()
		defer mu.Unlock()
		hashes = append(hashes, hash)
		return false
	}

	_, err := a.lookup(context.Background(), query.Row{"email": "alice@example.com", "password": "guess"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.lookup(context.Background(), query.Row{"email": "nobody@example.com", "password": "guess"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, hashes, 2)
	assert.Equal(t, "stored-hash", hashes[0])
	assert.Equal(t, dummyHash(), hashes[1])
}

func TestDummyHash(t *testing.T) {
	t.Parallel()

	h := dummyHash()
	assert.Equal(t, h, dummyHash())
	assert.False(t, CheckPassword("", h))
	assert.True(t, CheckPassword("sessionguard-no-such-user", h))
}
