package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearchService struct {
	hits    []any
	queries []string
}

func (s *stubSearchService) IndexPost(post *entity.Post) error { return nil }
func (s *stubSearchService) DeletePost(id string) error        { return nil }
func (s *stubSearchService) Register(d *consistency.Dispatcher) {}

func (s *stubSearchService) SearchPosts(query string) ([]any, error) {
	s.queries = append(s.queries, query)
	return s.hits, nil
}

func newSearchRouter(svc *stubSearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/search/posts", NewSearchHandler(svc).SearchPosts)
	return router
}

func TestSearchPostsRequiresQuery(t *testing.T) {
	router := newSearchRouter(&stubSearchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPostsReturnsHits(t *testing.T) {
	svc := &stubSearchService{
		hits: []any{
			map[string]any{"id": "p1", "body": "hello world"},
		},
	}
	router := newSearchRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search/posts?q=hello", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":[{"id":"p1","body":"hello world"}]}`, w.Body.String())
	assert.Equal(t, []string{"hello"}, svc.queries)
}
