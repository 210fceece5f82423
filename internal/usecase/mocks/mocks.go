package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/usecase"
)

// MemoryStore is shared in-memory state behind the repository mocks.
// Transactions are serialized and undone on rollback.
type MemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	accounts map[string]*domain.Account
	records  []*domain.TransferRecord
	events   []*domain.OutboxEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed inserts an account directly.
func (s *MemoryStore) Seed(id string, balance decimal.Decimal) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := &domain.Account{
		ID:             id,
		OwnerID:        "owner-" + id,
		Balance:        balance,
		OpeningBalance: balance,
	}
	s.accounts[id] = acc
	return acc
}

// Balance returns the committed balance of an account.
func (s *MemoryStore) Balance(id string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc, ok := s.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

// Records returns a copy of the ledger in append order.
func (s *MemoryStore) Records() []*domain.TransferRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.TransferRecord(nil), s.records...)
}

// Events returns a copy of the outbox.
func (s *MemoryStore) Events() []*domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), s.events...)
}

// AddRecord appends a record outside any transaction.
func (s *MemoryStore) AddRecord(rec *domain.TransferRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *MemoryStore) onRollback(tx usecase.Transaction, undo func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.undo = append(mt.undo, undo)
	}
}

// MockAccountRepository is a mock implementation of AccountStore.
type MockAccountRepository struct {
	store *MemoryStore

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Account, error)
	GetBalanceFunc    func(ctx context.Context, id string) (decimal.Decimal, error)
	LockForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	TryAdjustFunc     func(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance decimal.Decimal) (decimal.Decimal, error)
	TotalsFunc        func(ctx context.Context) (usecase.AccountTotals, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository(store *MemoryStore) *MockAccountRepository {
	return &MockAccountRepository{store: store}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, acc := range m.store.accounts {
		if acc.OwnerID == account.OwnerID {
			return domain.ErrAccountAlreadyExists
		}
	}
	stored := *account
	m.store.accounts[account.ID] = &stored
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	if acc, ok := m.store.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, id)
	}
	acc, err := m.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.LockForUpdateFunc != nil {
		return m.LockForUpdateFunc(ctx, tx, ids)
	}
	var accounts []*domain.Account
	for _, id := range ids {
		acc, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) TryAdjust(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	if m.TryAdjustFunc != nil {
		return m.TryAdjustFunc(ctx, tx, id, delta, minBalance)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	acc, ok := m.store.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	newBalance, err := acc.ApplyDelta(delta, minBalance)
	if err != nil {
		return decimal.Zero, err
	}
	previous := acc.Balance
	acc.Balance = newBalance
	acc.Version++
	m.store.onRollback(tx, func() {
		acc.Balance = previous
		acc.Version--
	})
	return newBalance, nil
}

func (m *MockAccountRepository) Totals(ctx context.Context) (usecase.AccountTotals, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	totals := usecase.AccountTotals{Balance: decimal.Zero, OpeningBalance: decimal.Zero}
	for _, acc := range m.store.accounts {
		totals.Accounts++
		totals.Balance = totals.Balance.Add(acc.Balance)
		totals.OpeningBalance = totals.OpeningBalance.Add(acc.OpeningBalance)
		if acc.Balance.IsNegative() {
			totals.NegativeBalance++
		}
	}
	return totals, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	ids := make([]string, 0, len(m.store.accounts))
	for id := range m.store.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var accounts []*domain.Account
	for i := offset; i < len(ids) && len(accounts) < limit; i++ {
		copied := *m.store.accounts[ids[i]]
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// MockLedgerRepository is a mock implementation of LedgerStore.
type MockLedgerRepository struct {
	store *MemoryStore

	AppendFunc              func(ctx context.Context, tx usecase.Transaction, rec *domain.TransferRecord) (*domain.TransferRecord, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.TransferRecord, error)
	RecentByParticipantFunc func(ctx context.Context, accountID string, since time.Time, limit int) ([]*domain.TransferRecord, error)
	CompletedOutgoingFunc   func(ctx context.Context, tx usecase.Transaction, senderID string, since time.Time) ([]*domain.TransferRecord, error)
	NetFlowFunc             func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockLedgerRepository(store *MemoryStore) *MockLedgerRepository {
	return &MockLedgerRepository{store: store}
}

func (m *MockLedgerRepository) Append(ctx context.Context, tx usecase.Transaction, rec *domain.TransferRecord) (*domain.TransferRecord, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, rec)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.records {
		if existing.IdempotencyKey == rec.IdempotencyKey {
			return existing, domain.ErrDuplicateRecord
		}
	}
	m.store.records = append(m.store.records, rec)
	m.store.onRollback(tx, func() {
		for i, existing := range m.store.records {
			if existing == rec {
				m.store.records = append(m.store.records[:i], m.store.records[i+1:]...)
				return
			}
		}
	})
	return rec, nil
}

func (m *MockLedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.TransferRecord, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	for _, rec := range m.store.records {
		if rec.IdempotencyKey == key {
			return rec, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockLedgerRepository) RecentByParticipant(ctx context.Context, accountID string, since time.Time, limit int) ([]*domain.TransferRecord, error) {
	if m.RecentByParticipantFunc != nil {
		return m.RecentByParticipantFunc(ctx, accountID, since, limit)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var records []*domain.TransferRecord
	for i := len(m.store.records) - 1; i >= 0 && len(records) < limit; i-- {
		rec := m.store.records[i]
		if rec.CreatedAt.Before(since) {
			continue
		}
		if rec.FromAccountID == accountID || rec.ToAccountID == accountID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *MockLedgerRepository) CompletedOutgoingSince(ctx context.Context, tx usecase.Transaction, senderID string, since time.Time) ([]*domain.TransferRecord, error) {
	if m.CompletedOutgoingFunc != nil {
		return m.CompletedOutgoingFunc(ctx, tx, senderID, since)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var records []*domain.TransferRecord
	for i := len(m.store.records) - 1; i >= 0; i-- {
		rec := m.store.records[i]
		if rec.FromAccountID == senderID && rec.Completed() && !rec.CreatedAt.Before(since) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *MockLedgerRepository) NetFlow(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.NetFlowFunc != nil {
		return m.NetFlowFunc(ctx, accountID)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	flow := decimal.Zero
	for _, rec := range m.store.records {
		if !rec.Completed() {
			continue
		}
		if rec.ToAccountID == accountID {
			flow = flow.Add(rec.Amount)
		}
		if rec.FromAccountID == accountID {
			flow = flow.Sub(rec.Amount)
		}
	}
	return flow, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *MemoryStore

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository(store *MemoryStore) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.events = append(m.store.events, event)
	m.store.onRollback(tx, func() {
		for i, existing := range m.store.events {
			if existing == event {
				m.store.events = append(m.store.events[:i], m.store.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, event := range m.store.events {
		if !event.Published && len(events) < limit {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, event := range m.store.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	kept := m.store.events[:0]
	for _, event := range m.store.events {
		if event.Published && event.PublishedAt != nil && event.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, event)
	}
	m.store.events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With a store attached, transactions run one at a time.
type MockTransactionManager struct {
	store *MemoryStore

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager(store *MemoryStore) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if m.store == nil {
		return &MockTransaction{}, nil
	}
	m.store.txMu.Lock()
	return &MockTransaction{store: m.store}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	store *MemoryStore
	undo  []func()
	done  bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	if m.done {
		return nil
	}
	m.done = true
	m.undo = nil
	m.release()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if m.done {
		return nil
	}
	m.done = true
	if m.store != nil {
		m.store.mu.Lock()
		for i := len(m.undo) - 1; i >= 0; i-- {
			m.undo[i]()
		}
		m.store.mu.Unlock()
	}
	m.undo = nil
	m.release()
	return nil
}

func (m *MockTransaction) release() {
	if m.store != nil {
		m.store.txMu.Unlock()
	}
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}
