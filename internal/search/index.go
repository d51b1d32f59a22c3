// Package search provides the account search index consumed as a
// best-effort collaborator: writes come from account creation and deletion,
// reads from the (external) search endpoint. The in-memory implementation
// here is the only backend; swapping in a real engine means implementing
// service.Indexer.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type document struct {
	id     uuid.UUID
	text   string
	sortBy string
}

// Index is a mutex-guarded substring index over username, name, and email.
type Index struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]document
}

func New() *Index {
	return &Index{docs: make(map[uuid.UUID]document)}
}

func (i *Index) Index(ctx context.Context, account *domain.Account) error {
	text := strings.ToLower(strings.Join([]string{
		account.Username, account.FirstName, account.LastName, account.Email,
	}, " "))

	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[account.ID] = document{
		id:     account.ID,
		text:   text,
		sortBy: strings.ToLower(account.Username),
	}
	return nil
}

func (i *Index) Remove(ctx context.Context, id uuid.UUID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
	return nil
}

// Search returns ids of accounts whose indexed text contains the query,
// ordered by username.
func (i *Index) Search(query string) []uuid.UUID {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	i.mu.RLock()
	var hits []document
	for _, doc := range i.docs {
		if strings.Contains(doc.text, query) {
			hits = append(hits, doc)
		}
	}
	i.mu.RUnlock()

	sort.Slice(hits, func(a, b int) bool { return hits[a].sortBy < hits[b].sortBy })

	ids := make([]uuid.UUID, len(hits))
	for n, doc := range hits {
		ids[n] = doc.id
	}
	return ids
}
