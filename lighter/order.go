package lighter

import (
	"context"
	"fmt"
	"strconv"

	"lighterprobe/models"
)

// OrderAPI groups the order book and trade endpoints.
type OrderAPI struct {
	client *APIClient
}

func NewOrderAPI(client *APIClient) *OrderAPI {
	return &OrderAPI{client: client}
}

// OrderBooks lists every market.
func (a *OrderAPI) OrderBooks(ctx context.Context) (*models.OrderBooks, error) {
	var out models.OrderBooks
	if err := a.client.get(ctx, "/api/v1/orderBooks", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderBookDetails fetches the statistics of one market.
func (a *OrderAPI) OrderBookDetails(ctx context.Context, marketID int64) (*models.OrderBookDetails, error) {
	var out models.OrderBookDetails
	params := map[string]string{"market_id": strconv.FormatInt(marketID, 10)}
	if err := a.client.get(ctx, "/api/v1/orderBookDetails", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentTrades fetches up to limit of the latest trades of one market.
func (a *OrderAPI) RecentTrades(ctx context.Context, marketID int64, limit int) (*models.Trades, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("recent trades limit must be positive, got %d", limit)
	}
	var out models.Trades
	params := map[string]string{
		"market_id": strconv.FormatInt(marketID, 10),
		"limit":     strconv.Itoa(limit),
	}
	if err := a.client.get(ctx, "/api/v1/recentTrades", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
