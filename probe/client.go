package probe

import (
	"context"
	"fmt"

	"lighterprobe/lighter"
	"lighterprobe/models"
)

// InfoAPI is the platform-info surface the probe depends on.
type InfoAPI interface {
	Layer2BasicInfo(ctx context.Context) (*models.Layer2BasicInfo, error)
}

// OrderAPI is the market-data surface the probe depends on.
type OrderAPI interface {
	OrderBooks(ctx context.Context) (*models.OrderBooks, error)
	OrderBookDetails(ctx context.Context, marketID int64) (*models.OrderBookDetails, error)
	RecentTrades(ctx context.Context, marketID int64, limit int) (*models.Trades, error)
}

// BlockAPI is the block surface the probe depends on.
type BlockAPI interface {
	CurrentHeight(ctx context.Context) (*models.CurrentHeight, error)
	Block(ctx context.Context, by models.BlockLookup, value string) (*models.Blocks, error)
}

// Client is a handle scoped to one run. Close is called exactly once by Execute.
type Client interface {
	InfoAPI
	OrderAPI
	BlockAPI
	Close() error
}

// Opener acquires a fresh Client for a run.
type Opener func(ctx context.Context) (Client, error)

// hostNamer is implemented by clients that know which host they talk to.
type hostNamer interface {
	Host() string
}

type lighterClient struct {
	*lighter.InfoAPI
	*lighter.OrderAPI
	*lighter.BlockAPI
	api *lighter.APIClient
}

func (c *lighterClient) Close() error { return c.api.Close() }

func (c *lighterClient) Host() string { return c.api.Configuration().Host }

// OpenLighter returns an Opener that binds a new lighter.APIClient to cfg.
func OpenLighter(cfg lighter.Configuration) Opener {
	return func(ctx context.Context) (Client, error) {
		if cfg.Host == "" {
			return nil, fmt.Errorf("lighter host is not configured")
		}
		api := lighter.NewAPIClient(cfg)
		return &lighterClient{
			InfoAPI:  api.Info(),
			OrderAPI: api.Order(),
			BlockAPI: api.Block(),
			api:      api,
		}, nil
	}
}
