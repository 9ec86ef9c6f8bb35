package service

import (
	"testing"

	"github.com/Skotchmaster/simple_shop/internal/db/dbtest"
	"github.com/Skotchmaster/simple_shop/internal/events/eventstest"
	"github.com/Skotchmaster/simple_shop/internal/repo"
)

type testEnv struct {
	repo    *repo.GormRepo
	events  *eventstest.Recorder
	auth    *AuthService
	catalog *CatalogService
	cart    *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.Open(t)}
	rec := &eventstest.Recorder{}

	return &testEnv{
		repo:   r,
		events: rec,
		auth: &AuthService{
			Repo:          r,
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			Events:        rec,
		},
		catalog: &CatalogService{Repo: r, Searcher: r, Events: rec},
		cart:    &CartService{Repo: r, Events: rec},
	}
}

func ptr[T any](v T) *T { return &v }
