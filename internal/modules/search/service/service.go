package service

import (
	"context"
	"html"
	"log"
	"strings"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const postsIndex = "posts"

type SearchService interface {
	IndexPost(post *entity.Post) error
	DeletePost(id string) error
	SearchPosts(query string) ([]any, error)

	// Register subscribes the indexer to post create/delete events, making
	// the search index one more piece of derived state the dispatcher keeps
	// in sync.
	Register(d *consistency.Dispatcher)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortableAttrs := []string{"createdAt"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}

	filterableAttrs := []any{"userHandle"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterableAttrs); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}
}

// Struct for Meilisearch indexing
type meiliPostDoc struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	UserHandle string `json:"userHandle"`
	CreatedAt  int64  `json:"createdAt"`
}

func (s *meiliSearchService) cleanBodyForIndex(body string) string {
	sanitized := s.sanitizer.Sanitize(body)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *entity.Post) error {
	doc := meiliPostDoc{
		ID:         post.ID,
		Body:       s.cleanBodyForIndex(post.Body),
		UserHandle: post.UserHandle,
		CreatedAt:  post.CreatedAt.Unix(),
	}

	_, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	return err
}

func strPtr(s string) *string {
	return &s
}

func (s *meiliSearchService) DeletePost(id string) error {
	_, err := s.client.Index(postsIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchPosts(query string) ([]any, error) {
	resp, err := s.client.Index(postsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 20,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]any, len(resp.Hits))
	for i, hit := range resp.Hits {
		hits[i] = hit
	}
	return hits, nil
}

func (s *meiliSearchService) Register(d *consistency.Dispatcher) {
	d.Subscribe(entity.Posts, consistency.OpCreate, func(ctx context.Context, ev consistency.Event) error {
		post, ok := ev.After.(*entity.Post)
		if !ok {
			return nil
		}
		return s.IndexPost(post)
	})
	d.Subscribe(entity.Posts, consistency.OpDelete, func(ctx context.Context, ev consistency.Event) error {
		return s.DeletePost(ev.ID)
	})
}
