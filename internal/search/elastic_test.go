package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/simple_shop/internal/models"
)

type fakeCluster struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.URL.Path] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":7,"name":"Widget","price":9.99,"description":"blue"}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newFakeClient(t *testing.T) (*ElasticClient, *fakeCluster) {
	t.Helper()
	f := &fakeCluster{bodies: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewElasticClient(context.Background(), Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return c, f
}

func TestElasticClient_IndexAndDelete(t *testing.T) {
	c, f := newFakeClient(t)
	ctx := context.Background()

	require.NoError(t, c.Index(ctx, models.Product{ID: 7, Name: "Widget", Price: 9.99}))
	require.NoError(t, c.Delete(ctx, 7))

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Contains(t, f.requests, "PUT /products/_doc/7")
	assert.Contains(t, f.requests, "DELETE /products/_doc/7")

	var doc models.Product
	require.NoError(t, json.Unmarshal([]byte(f.bodies["/products/_doc/7"]), &doc))
	assert.Equal(t, "Widget", doc.Name)
}

func TestElasticClient_Search(t *testing.T) {
	c, f := newFakeClient(t)

	total, items, err := c.Search(context.Background(), "widgt", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, uint(7), items[0].ID)
	assert.Equal(t, "Widget", items[0].Name)

	f.mu.Lock()
	defer f.mu.Unlock()
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies["/products/_search"]), &q))
	assert.EqualValues(t, 10, q["size"])
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "widgt", mm["query"])
}
