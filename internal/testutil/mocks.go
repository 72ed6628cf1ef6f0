package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/repository/storage"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	UpsertFn func(identity domain.Identity) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Upsert creates the user or refreshes email and picture, keeping an existing name
func (m *MockUserRepository) Upsert(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(identity)
	}
	if user, ok := m.Users[identity.Subject]; ok {
		user.Email = identity.Email
		user.PictureURL = identity.PictureURL
		if user.Name == nil {
			user.Name = identity.Name
		}
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    identity.Subject,
		Email:      identity.Email,
		Name:       identity.Name,
		PictureURL: identity.PictureURL,
	}
	m.AddUser(user)
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockAccountRepository is a mock implementation of domain.AccountRepository.
// It also holds the balances the transaction and saving log mocks move.
type MockAccountRepository struct {
	Accounts     map[int32]*domain.Account
	NextID       int32
	ListByUserFn func(userID uuid.UUID) ([]*domain.Account, error)
	mu           sync.Mutex
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
	}
}

// ListByUser retrieves all accounts of a user, oldest first
func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byUser(userID), nil
}

// GetOrCreatePrimary returns the oldest account of the user, creating one when needed
func (m *MockAccountRepository) GetOrCreatePrimary(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accounts := m.byUser(userID); len(accounts) > 0 {
		return accounts[0], nil
	}
	account := &domain.Account{
		ID:      m.NextID,
		UserID:  userID,
		Name:    domain.DefaultAccountName,
		Balance: decimal.Zero,
		Saved:   decimal.Zero,
	}
	m.NextID++
	m.Accounts[account.ID] = account
	return account, nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = account
	if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
}

// adjust moves an account's balance and saved amount, refusing to go negative
func (m *MockAccountRepository) adjust(userID uuid.UUID, accountID int32, balanceDelta, savedDelta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.Accounts[accountID]
	if !ok || account.UserID != userID {
		return domain.ErrAccountNotFound
	}
	balance := account.Balance.Add(balanceDelta)
	saved := account.Saved.Add(savedDelta)
	if balance.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	if saved.IsNegative() {
		return domain.ErrInsufficientSaved
	}
	account.Balance = balance
	account.Saved = saved
	return nil
}

func (m *MockAccountRepository) byUser(userID uuid.UUID) []*domain.Account {
	var result []*domain.Account
	for _, a := range m.Accounts {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// When Accounts is set, writes move balances the way the database does.
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	Accounts     *MockAccountRepository
	NextID       int32
	LastFilters  *domain.TransactionFilters
	LastLimit    int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	mu           sync.Mutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create stores a transaction and applies it to the account balance
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	if m.Accounts != nil {
		if err := m.Accounts.adjust(transaction.UserID, transaction.AccountID, effect(transaction.Type, transaction.Amount), decimal.Zero); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction.ID = m.NextID
	m.NextID++
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID for a user
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// ListByUser returns the user's transactions matching filters, newest first
func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	m.mu.Lock()
	m.LastFilters = filters
	m.mu.Unlock()
	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
		}
		result = append(result, t)
	}
	sortNewestFirst(result)
	return result, nil
}

// ListRecent returns the user's latest transactions
func (m *MockTransactionRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	all, err := m.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.LastLimit = limit
	m.mu.Unlock()
	if int32(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Update rewrites a transaction and moves the balance by the change in its effect
func (m *MockTransactionRepository) Update(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	existing, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if m.Accounts != nil {
		delta := effect(existing.Type, data.Amount).Sub(effect(existing.Type, existing.Amount))
		if err := m.Accounts.adjust(userID, existing.AccountID, delta, decimal.Zero); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing.Date = data.Date
	existing.Category = data.Category
	existing.Detail = data.Detail
	existing.Amount = data.Amount
	existing.Note = data.Note
	return existing, nil
}

// Delete removes a transaction and reverses its balance effect
func (m *MockTransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if m.Accounts != nil {
		if err := m.Accounts.adjust(userID, existing.AccountID, effect(existing.Type, existing.Amount).Neg(), decimal.Zero); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction without touching balances (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.NextID
	}
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
	m.Transactions[t.ID] = t
}

func effect(t domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == domain.TransactionTypeIn {
		return amount
	}
	return amount.Neg()
}

func sortNewestFirst(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets      map[int32]*domain.Budget
	NextID       int32
	ListByUserFn func(userID uuid.UUID) ([]*domain.Budget, error)
	mu           sync.Mutex
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Upsert creates a budget or replaces the amount of the one with the same category and period
func (m *MockBudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Budgets {
		if b.UserID == budget.UserID && b.Category == budget.Category && b.Period == budget.Period {
			b.Amount = budget.Amount
			return b, nil
		}
	}
	budget.ID = m.NextID
	m.NextID++
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID for a user
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

// ListByUser retrieves a user's budgets ordered by category
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Period < result[j].Period
	})
	return result, nil
}

// Update rewrites a budget, refusing to collide with another (category, period)
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	for _, b := range m.Budgets {
		if b.ID != budget.ID && b.UserID == budget.UserID && b.Category == budget.Category && b.Period == budget.Period {
			return nil, domain.ErrAlreadyExists
		}
	}
	existing.Category = budget.Category
	existing.Period = budget.Period
	existing.Amount = budget.Amount
	return existing, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.NextID
	}
	if b.ID >= m.NextID {
		m.NextID = b.ID + 1
	}
	m.Budgets[b.ID] = b
}

// MockSavingLogRepository is a mock implementation of domain.SavingLogRepository.
// When Accounts is set, Create enforces the same fund checks as the database.
type MockSavingLogRepository struct {
	Logs     []*domain.SavingLog
	Accounts *MockAccountRepository
	NextID   int32
	mu       sync.Mutex
}

// NewMockSavingLogRepository creates a new MockSavingLogRepository
func NewMockSavingLogRepository() *MockSavingLogRepository {
	return &MockSavingLogRepository{NextID: 1}
}

// Create records a saving action and moves the saved amount
func (m *MockSavingLogRepository) Create(ctx context.Context, log *domain.SavingLog) (*domain.SavingLog, error) {
	if m.Accounts != nil {
		m.Accounts.mu.Lock()
		account, ok := m.Accounts.Accounts[log.AccountID]
		if !ok || account.UserID != log.UserID {
			m.Accounts.mu.Unlock()
			return nil, domain.ErrAccountNotFound
		}
		switch log.Action {
		case domain.SavingActionSave:
			if account.Balance.LessThan(log.Amount) {
				m.Accounts.mu.Unlock()
				return nil, domain.ErrInsufficientBalance
			}
			account.Saved = account.Saved.Add(log.Amount)
		case domain.SavingActionUnsave:
			if account.Saved.LessThan(log.Amount) {
				m.Accounts.mu.Unlock()
				return nil, domain.ErrInsufficientSaved
			}
			account.Saved = account.Saved.Sub(log.Amount)
		default:
			m.Accounts.mu.Unlock()
			return nil, fmt.Errorf("%w: unknown saving action %q", domain.ErrInvalidInput, log.Action)
		}
		m.Accounts.mu.Unlock()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = m.NextID
	m.NextID++
	m.Logs = append(m.Logs, log)
	return log, nil
}

// ListByUser returns the user's saving logs, newest first
func (m *MockSavingLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.SavingLog
	for _, l := range m.Logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

// AddLog adds a saving log without touching balances (helper for tests)
func (m *MockSavingLogRepository) AddLog(l *domain.SavingLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.NextID
	m.NextID++
	m.Logs = append(m.Logs, l)
}

// MockSaveGoalRepository is a mock implementation of domain.SaveGoalRepository
type MockSaveGoalRepository struct {
	Goals       map[uuid.UUID]*domain.SaveGoal
	NextID      int32
	GetByUserFn func(userID uuid.UUID) (*domain.SaveGoal, error)
	mu          sync.Mutex
}

// NewMockSaveGoalRepository creates a new MockSaveGoalRepository
func NewMockSaveGoalRepository() *MockSaveGoalRepository {
	return &MockSaveGoalRepository{
		Goals:  make(map[uuid.UUID]*domain.SaveGoal),
		NextID: 1,
	}
}

// GetByUser retrieves the user's goal
func (m *MockSaveGoalRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.SaveGoal, error) {
	if m.GetByUserFn != nil {
		return m.GetByUserFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.Goals[userID]; ok {
		return g, nil
	}
	return nil, domain.ErrSaveGoalNotFound
}

// Upsert creates or replaces the user's goal
func (m *MockSaveGoalRepository) Upsert(ctx context.Context, goal *domain.SaveGoal) (*domain.SaveGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.Goals[goal.UserID]; ok {
		goal.ID = existing.ID
	} else {
		goal.ID = m.NextID
		m.NextID++
	}
	m.Goals[goal.UserID] = goal
	return goal, nil
}

// Delete removes the user's goal
func (m *MockSaveGoalRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Goals[userID]; !ok {
		return domain.ErrSaveGoalNotFound
	}
	delete(m.Goals, userID)
	return nil
}

// MockAPITokenRepository is a mock implementation of domain.APITokenRepository
type MockAPITokenRepository struct {
	Tokens    map[uuid.UUID]*domain.APIToken
	CreateErr error
	Touched   map[uuid.UUID]time.Time
	mu        sync.Mutex
}

// NewMockAPITokenRepository creates a new MockAPITokenRepository
func NewMockAPITokenRepository() *MockAPITokenRepository {
	return &MockAPITokenRepository{
		Tokens:  make(map[uuid.UUID]*domain.APIToken),
		Touched: make(map[uuid.UUID]time.Time),
	}
}

// Create stores a new token
func (m *MockAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.Tokens[token.ID] = token
	return nil
}

// ListByUser returns the user's unrevoked tokens, newest first
func (m *MockAPITokenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.APIToken
	for _, t := range m.Tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// FindByHash returns the unrevoked token with the given hash
func (m *MockAPITokenRepository) FindByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			return t, nil
		}
	}
	return nil, domain.ErrAPITokenNotFound
}

// Revoke marks a token as revoked
func (m *MockAPITokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tokens[id]
	if !ok || t.UserID != userID || t.RevokedAt != nil {
		return domain.ErrAPITokenNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

// Touch records the last use of a token
func (m *MockAPITokenRepository) Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Touched[id] = usedAt
	return nil
}

// LastTouched returns when the token was last recorded as used
func (m *MockAPITokenRepository) LastTouched(id uuid.UUID) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.Touched[id]
	return at, ok
}

// AddToken adds a token to the mock repository (helper for tests)
func (m *MockAPITokenRepository) AddToken(token *domain.APIToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[token.ID] = token
}

// MockReportCache is an in-memory report cache with per-user generations
type MockReportCache struct {
	Reports       map[domain.ReportKey]*domain.Report
	Generations   map[uuid.UUID]int64
	GenErr        error
	GetErr        error
	SetErr        error
	InvalidateErr error
	Invalidated   []uuid.UUID
	mu            sync.Mutex
}

// NewMockReportCache creates a new MockReportCache
func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		Reports:     make(map[domain.ReportKey]*domain.Report),
		Generations: make(map[uuid.UUID]int64),
	}
}

func cacheKey(key domain.ReportKey) domain.ReportKey {
	key.Day = key.Day.UTC().Truncate(24 * time.Hour)
	return key
}

// Generation returns the user's current generation
func (m *MockReportCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GenErr != nil {
		return 0, m.GenErr
	}
	return m.Generations[userID], nil
}

// Get returns the cached report or nil
func (m *MockReportCache) Get(ctx context.Context, key domain.ReportKey) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Reports[cacheKey(key)], nil
}

// Set stores a report
func (m *MockReportCache) Set(ctx context.Context, key domain.ReportKey, report *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Reports[cacheKey(key)] = report
	return nil
}

// InvalidateUser advances the user's generation and drops entries of older ones
func (m *MockReportCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, userID)
	if m.InvalidateErr != nil {
		return m.InvalidateErr
	}
	m.Generations[userID]++
	for k := range m.Reports {
		if k.UserID == userID {
			delete(m.Reports, k)
		}
	}
	return nil
}

// PublishedEvent is one event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher captures published events
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the type of every captured event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

// MockReportStore keeps uploaded objects in memory
type MockReportStore struct {
	Objects   map[string]storage.ReportObject
	UploadErr error
	mu        sync.Mutex
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{Objects: make(map[string]storage.ReportObject)}
}

// Put stores the object
func (m *MockReportStore) Put(ctx context.Context, obj storage.ReportObject) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[obj.Key] = obj
	return nil
}

// SignedURL returns a fake signed URL
func (m *MockReportStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(ttl.Seconds())), nil
}
