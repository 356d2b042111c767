// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory y en los tests de los casos de uso y handlers.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemStore)(nil)

// ItemStore guarda copias de los ítems; nunca entrega punteros a su estado interno.
type ItemStore struct {
	mu     sync.RWMutex
	items  map[string]entity.Item
	byName map[string]string // nombre en minúsculas -> id
	lower  cases.Caser
	now    func() time.Time
}

// NewItemStore crea un almacén vacío.
func NewItemStore() *ItemStore {
	return &ItemStore{
		items:  make(map[string]entity.Item),
		byName: make(map[string]string),
		lower:  cases.Lower(language.Und),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// nameKey pasa a minúsculas sin plegado completo, igual que lower() en PostgreSQL:
// "Straße" y "STRASSE" son nombres distintos. cases.Caser no es seguro para uso
// concurrente, por eso se llama con el lock exclusivo tomado.
func (s *ItemStore) nameKey(name string) string {
	return s.lower.String(name)
}

func (s *ItemStore) Create(_ context.Context, item *entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nameKey(item.Name)
	if _, taken := s.byName[key]; taken {
		return domain.ErrNameConflict
	}
	s.items[item.ID] = *item
	s.byName[key] = item.ID
	return nil
}

func (s *ItemStore) GetByID(_ context.Context, id string) (*entity.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (s *ItemStore) FindByNameCaseInsensitive(_ context.Context, name string) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[s.nameKey(name)]
	if !ok {
		return nil, nil
	}
	it := s.items[id]
	return &it, nil
}

func (s *ItemStore) SearchByName(_ context.Context, fragment string) ([]*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := s.nameKey(fragment)
	out := make([]*entity.Item, 0)
	for key, id := range s.byName {
		if strings.Contains(key, needle) {
			it := s.items[id]
			out = append(out, &it)
		}
	}
	sortItems(out)
	return out, nil
}

func (s *ItemStore) Update(_ context.Context, item *entity.Item) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[item.ID]
	if !ok {
		return nil, nil
	}
	if cur.Version != item.Version {
		return nil, domain.ErrVersionConflict
	}
	oldKey, newKey := s.nameKey(cur.Name), s.nameKey(item.Name)
	if owner, taken := s.byName[newKey]; taken && owner != item.ID {
		return nil, domain.ErrNameConflict
	}

	cur.Name = item.Name
	cur.Price = item.Price
	cur.Quantity = item.Quantity
	cur.Version++
	cur.UpdatedAt = s.now()
	s.items[item.ID] = cur
	delete(s.byName, oldKey)
	s.byName[newKey] = item.ID
	return &cur, nil
}

func (s *ItemStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return false, nil
	}
	delete(s.items, id)
	delete(s.byName, s.nameKey(it.Name))
	return true, nil
}

func (s *ItemStore) CompareAndSwapQuantity(_ context.Context, id string, expectedVersion, newQuantity int) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if cur.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	cur.Quantity = newQuantity
	cur.Version++
	cur.UpdatedAt = s.now()
	s.items[id] = cur
	return &cur, nil
}

// snapshot copia todos los ítems ordenados por nombre (para reportes).
func (s *ItemStore) snapshot() []*entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Item, 0, len(s.items))
	for _, it := range s.items {
		it := it
		out = append(out, &it)
	}
	sortItems(out)
	return out
}

func sortItems(items []*entity.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
