package lighter

import (
	"context"
	"fmt"

	"lighterprobe/models"
)

// BlockAPI groups the L2 block endpoints.
type BlockAPI struct {
	client *APIClient
}

func NewBlockAPI(client *APIClient) *BlockAPI {
	return &BlockAPI{client: client}
}

// CurrentHeight fetches the latest block height.
func (a *BlockAPI) CurrentHeight(ctx context.Context) (*models.CurrentHeight, error) {
	var out models.CurrentHeight
	if err := a.client.get(ctx, "/api/v1/currentHeight", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Block looks a block up by height or by hash.
func (a *BlockAPI) Block(ctx context.Context, by models.BlockLookup, value string) (*models.Blocks, error) {
	if !by.Valid() {
		return nil, fmt.Errorf("unsupported block lookup %q", by)
	}
	if value == "" {
		return nil, fmt.Errorf("block lookup value is required")
	}
	var out models.Blocks
	params := map[string]string{"by": string(by), "value": value}
	if err := a.client.get(ctx, "/api/v1/block", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
