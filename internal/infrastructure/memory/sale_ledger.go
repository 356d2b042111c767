package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleLedger)(nil)

// SaleLedger libro de ventas en memoria, deduplicado por ID.
type SaleLedger struct {
	mu    sync.RWMutex
	sales map[string]entity.Sale
}

func NewSaleLedger() *SaleLedger {
	return &SaleLedger{sales: make(map[string]entity.Sale)}
}

func (l *SaleLedger) InsertIfAbsent(_ context.Context, sale *entity.Sale) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sales[sale.ID]; ok {
		return false, nil
	}
	l.sales[sale.ID] = *sale
	return true, nil
}

func (l *SaleLedger) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Len devuelve la cantidad de ventas registradas.
func (l *SaleLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales)
}

func (l *SaleLedger) all() []entity.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.Sale, 0, len(l.sales))
	for _, s := range l.sales {
		out = append(out, s)
	}
	return out
}
