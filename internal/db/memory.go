package db

import (
	"context"
	"sort"
	"sync"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
)

const defaultMemoryPageSize = 100

// MemoryDatabase keeps every collection in process memory. It backs one-off
// runs such as the simulate command where a mongo instance is not wanted.
type MemoryDatabase struct {
	mu        sync.RWMutex
	accounts  map[string]*model.LedgerAccountDocument
	pool      *model.PoolStateDocument
	events    map[string]*model.LedgerEventDocument
	lastBlock uint64
	pageSize  int64
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		accounts: make(map[string]*model.LedgerAccountDocument),
		events:   make(map[string]*model.LedgerEventDocument),
		pageSize: defaultMemoryPageSize,
	}
}

func (m *MemoryDatabase) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryDatabase) UpsertLedgerAccounts(_ context.Context, accounts []*model.LedgerAccountDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range accounts {
		doc := *acc
		m.accounts[acc.ID] = &doc
	}
	return nil
}

func (m *MemoryDatabase) GetLedgerAccount(_ context.Context, address string) (*model.LedgerAccountDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[address]
	if !ok {
		return nil, &NotFoundError{
			Key:     address,
			Message: "ledger account not found",
		}
	}
	doc := *acc
	return &doc, nil
}

func (m *MemoryDatabase) FindLedgerAccounts(_ context.Context) ([]*model.LedgerAccountDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedAccounts(), nil
}

func (m *MemoryDatabase) FindLedgerAccountsPage(
	_ context.Context, paginationToken string,
) ([]*model.LedgerAccountDocument, string, error) {
	after := int64(-1)
	if paginationToken != "" {
		var err error
		if after, err = decodePaginationToken(paginationToken); err != nil {
			return nil, "", err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var page []*model.LedgerAccountDocument
	for _, acc := range m.sortedAccounts() {
		if acc.Order > after {
			page = append(page, acc)
		}
	}

	var next string
	if int64(len(page)) > m.pageSize {
		page = page[:m.pageSize]
		next = encodePaginationToken(page[len(page)-1].Order)
	}
	return page, next, nil
}

func (m *MemoryDatabase) UpsertPoolState(_ context.Context, pool *model.PoolStateDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := *pool
	m.pool = &doc
	return nil
}

func (m *MemoryDatabase) GetPoolState(_ context.Context) (*model.PoolStateDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pool == nil {
		return nil, &NotFoundError{
			Key:     model.PoolStateID(),
			Message: "pool state not found",
		}
	}
	doc := *m.pool
	return &doc, nil
}

func (m *MemoryDatabase) SaveLedgerEvents(_ context.Context, events []*model.LedgerEventDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range events {
		if _, ok := m.events[ev.ID]; ok {
			continue
		}
		doc := *ev
		m.events[ev.ID] = &doc
	}
	return nil
}

func (m *MemoryDatabase) FindLedgerEventsByAccount(
	_ context.Context, address string, limit int64,
) ([]*model.LedgerEventDocument, error) {
	if limit <= 0 || limit > m.pageSize {
		limit = m.pageSize
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []*model.LedgerEventDocument
	for _, ev := range m.events {
		if ev.Account == address {
			doc := *ev
			events = append(events, &doc)
		}
	}

	// newest first, same as the mongo index
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Block != b.Block {
			return a.Block > b.Block
		}
		if a.Nonce != b.Nonce {
			return a.Nonce > b.Nonce
		}
		return a.Seq > b.Seq
	})

	if int64(len(events)) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (m *MemoryDatabase) GetLastProcessedBlock(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastBlock, nil
}

func (m *MemoryDatabase) UpdateLastProcessedBlock(_ context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastBlock = height
	return nil
}

// sortedAccounts returns copies in first deposit order, callers hold mu.
func (m *MemoryDatabase) sortedAccounts() []*model.LedgerAccountDocument {
	accounts := make([]*model.LedgerAccountDocument, 0, len(m.accounts))
	for _, acc := range m.accounts {
		doc := *acc
		accounts = append(accounts, &doc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Order < accounts[j].Order
	})
	return accounts
}
