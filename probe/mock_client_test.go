package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lighterprobe/models"
)

const (
	callLayer2Info       = "layer2BasicInfo"
	callOrderBooks       = "orderBooks"
	callOrderBookDetails = "orderBookDetails"
	callRecentTrades     = "recentTrades"
	callCurrentHeight    = "currentHeight"
	callBlock            = "block"
)

// mockClient is an instrumented Client with call tracking and error injection.
type mockClient struct {
	mu sync.Mutex

	Layer2Info    *models.Layer2BasicInfo
	Books         *models.OrderBooks
	Details       *models.OrderBookDetails
	Trades        *models.Trades
	Height        *models.CurrentHeight
	Blocks        *models.Blocks
	NilResponse   map[string]bool
	CloseErr      error
	CloseCount    int
	ClosedAtCalls int

	// Call tracking
	Calls []string
	Args  map[string][]string

	// Error injection
	ErrorOnNext map[string]error
}

func newMockClient(marketIDs ...int64) *mockClient {
	books := make([]models.OrderBook, 0, len(marketIDs))
	for _, id := range marketIDs {
		books = append(books, models.OrderBook{Symbol: fmt.Sprintf("M%d", id), MarketID: id, Status: "active"})
	}
	return &mockClient{
		Layer2Info:  &models.Layer2BasicInfo{ResultCode: models.ResultCode{Code: models.CodeOK}, BlockHeight: 990, TotalOrderBookMarkets: int64(len(marketIDs))},
		Books:       &models.OrderBooks{ResultCode: models.ResultCode{Code: models.CodeOK}, OrderBooks: books},
		Details:     &models.OrderBookDetails{ResultCode: models.ResultCode{Code: models.CodeOK}},
		Trades:      &models.Trades{ResultCode: models.ResultCode{Code: models.CodeOK}},
		Height:      &models.CurrentHeight{ResultCode: models.ResultCode{Code: models.CodeOK}, Height: 1000},
		Blocks:      &models.Blocks{ResultCode: models.ResultCode{Code: models.CodeOK}, Total: 1, Blocks: []models.Block{{Height: 1000}}},
		NilResponse: make(map[string]bool),
		Args:        make(map[string][]string),
		ErrorOnNext: make(map[string]error),
	}
}

func (m *mockClient) trackCall(name string, args ...interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	m.Args[name] = append(m.Args[name], strings.Join(parts, ","))
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return false, err
	}
	return m.NilResponse[name], nil
}

func (m *mockClient) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockClient) Layer2BasicInfo(ctx context.Context) (*models.Layer2BasicInfo, error) {
	if isNil, err := m.trackCall(callLayer2Info); err != nil || isNil {
		return nil, err
	}
	return m.Layer2Info, nil
}

func (m *mockClient) OrderBooks(ctx context.Context) (*models.OrderBooks, error) {
	if isNil, err := m.trackCall(callOrderBooks); err != nil || isNil {
		return nil, err
	}
	return m.Books, nil
}

func (m *mockClient) OrderBookDetails(ctx context.Context, marketID int64) (*models.OrderBookDetails, error) {
	if isNil, err := m.trackCall(callOrderBookDetails, marketID); err != nil || isNil {
		return nil, err
	}
	return m.Details, nil
}

func (m *mockClient) RecentTrades(ctx context.Context, marketID int64, limit int) (*models.Trades, error) {
	if isNil, err := m.trackCall(callRecentTrades, marketID, limit); err != nil || isNil {
		return nil, err
	}
	return m.Trades, nil
}

func (m *mockClient) CurrentHeight(ctx context.Context) (*models.CurrentHeight, error) {
	if isNil, err := m.trackCall(callCurrentHeight); err != nil || isNil {
		return nil, err
	}
	return m.Height, nil
}

func (m *mockClient) Block(ctx context.Context, by models.BlockLookup, value string) (*models.Blocks, error) {
	if isNil, err := m.trackCall(callBlock, by, value); err != nil || isNil {
		return nil, err
	}
	return m.Blocks, nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCount++
	m.ClosedAtCalls = len(m.Calls)
	return m.CloseErr
}

func (m *mockClient) opener() Opener {
	return func(ctx context.Context) (Client, error) { return m, nil }
}

// recorder is a Reporter that keeps every line by level.
type recorder struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (r *recorder) Info(args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, fmt.Sprint(args...))
}

func (r *recorder) Error(args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprint(args...))
}

func (r *recorder) hasInfo(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.infos {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
