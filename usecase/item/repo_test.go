package item

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/repository"
)

// memStore backs the in-memory repository fakes used across the use case
// tests. All methods copy on the way in and out so tests cannot mutate
// stored state by accident.
type memStore struct {
	mu    sync.Mutex
	items map[string]domain.Item
	lists map[string]domain.List
	seq   int
	now   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		items: make(map[string]domain.Item),
		lists: make(map[string]domain.List),
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memStore) addList(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("list")
	s.lists[id] = domain.List{
		ID:        id,
		UserID:    userID,
		Title:     "list " + id,
		CreatedAt: s.tick(),
	}
	return id
}

func (s *memStore) addItem(listID string, parentID *string, order int, completed bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("item")
	s.items[id] = domain.Item{
		ID:        id,
		ListID:    listID,
		ParentID:  parentID,
		Title:     "item " + id,
		Completed: completed,
		Order:     order,
		Priority:  domain.PriorityMedium,
		CreatedAt: s.tick(),
	}
	return id
}

func (s *memStore) get(id string) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

type memItemRepo struct{ s *memStore }

var _ repository.ItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	out := it
	return &out, nil
}

func (r *memItemRepo) ListByList(_ context.Context, listID string) ([]domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Item
	for _, it := range r.s.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

func (r *memItemRepo) ChildrenOf(_ context.Context, listID string, parentID *string) ([]domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Item
	for _, it := range r.s.items {
		if it.ListID != listID {
			continue
		}
		if sameParent(it.ParentID, parentID) {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

func (r *memItemRepo) Descendants(_ context.Context, id string) ([]domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	children := make(map[string][]domain.Item)
	for _, it := range r.s.items {
		if it.ParentID != nil {
			children[*it.ParentID] = append(children[*it.ParentID], it)
		}
	}
	var out []domain.Item
	queue := []string{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range children[next] {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	sortItems(out)
	return out, nil
}

func (r *memItemRepo) MaxSiblingOrder(_ context.Context, listID string, parentID *string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxOrder := -1
	for _, it := range r.s.items {
		if it.ListID != listID || !sameParent(it.ParentID, parentID) {
			continue
		}
		if it.Order > maxOrder {
			maxOrder = it.Order
		}
	}
	return maxOrder, nil
}

func (r *memItemRepo) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *item
	if stored.ID == "" {
		stored.ID = r.s.nextID("item")
	}
	stored.CreatedAt = r.s.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.s.items[stored.ID] = stored
	out := stored
	return &out, nil
}

func (r *memItemRepo) Update(_ context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	stored := *item
	stored.UpdatedAt = r.s.tick()
	r.s.items[stored.ID] = stored
	return nil
}

func (r *memItemRepo) DeleteMany(_ context.Context, ids []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, id := range ids {
		if _, ok := r.s.items[id]; ok {
			delete(r.s.items, id)
			count++
		}
	}
	return count, nil
}

func (r *memItemRepo) SetCompleted(_ context.Context, ids []string, completed bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		it, ok := r.s.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		it.Completed = completed
		it.UpdatedAt = r.s.tick()
		r.s.items[id] = it
	}
	return nil
}

func (r *memItemRepo) SetParent(_ context.Context, id string, parentID *string, order int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.ParentID = parentID
	it.Order = order
	it.UpdatedAt = r.s.tick()
	r.s.items[id] = it
	return nil
}

func (r *memItemRepo) SetList(_ context.Context, ids []string, listID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		it, ok := r.s.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		it.ListID = listID
		it.UpdatedAt = r.s.tick()
		r.s.items[id] = it
	}
	return nil
}

func (r *memItemRepo) CompleteAll(_ context.Context, listID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for id, it := range r.s.items {
		if it.ListID != listID || it.Completed {
			continue
		}
		it.Completed = true
		it.UpdatedAt = r.s.tick()
		r.s.items[id] = it
		count++
	}
	return count, nil
}

type memListRepo struct{ s *memStore }

var _ repository.ListRepository = (*memListRepo)(nil)

func (r *memListRepo) GetByID(_ context.Context, id string) (*domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list, ok := r.s.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	out := list
	return &out, nil
}

func (r *memListRepo) ListByUser(_ context.Context, userID string) ([]domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.List
	for _, list := range r.s.lists {
		if list.UserID == userID {
			out = append(out, list)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *memListRepo) Create(_ context.Context, list *domain.List) (*domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *list
	if stored.ID == "" {
		stored.ID = r.s.nextID("list")
	}
	stored.CreatedAt = r.s.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.s.lists[stored.ID] = stored
	out := stored
	return &out, nil
}

func (r *memListRepo) Update(_ context.Context, list *domain.List) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lists[list.ID]; !ok {
		return domain.ErrListNotFound
	}
	stored := *list
	stored.UpdatedAt = r.s.tick()
	r.s.lists[stored.ID] = stored
	return nil
}

func (r *memListRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lists[id]; !ok {
		return domain.ErrListNotFound
	}
	delete(r.s.lists, id)
	for itemID, it := range r.s.items {
		if it.ListID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortItems(items []domain.Item) {
	sort.Slice(items, func(a, b int) bool {
		if items[a].Order != items[b].Order {
			return items[a].Order < items[b].Order
		}
		if !items[a].CreatedAt.Equal(items[b].CreatedAt) {
			return items[a].CreatedAt.Before(items[b].CreatedAt)
		}
		return items[a].ID < items[b].ID
	})
}
