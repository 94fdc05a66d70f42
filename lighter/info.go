package lighter

import (
	"context"

	"lighterprobe/models"
)

// InfoAPI groups the platform metadata endpoints.
type InfoAPI struct {
	client *APIClient
}

func NewInfoAPI(client *APIClient) *InfoAPI {
	return &InfoAPI{client: client}
}

// Layer2BasicInfo fetches the platform summary.
func (a *InfoAPI) Layer2BasicInfo(ctx context.Context) (*models.Layer2BasicInfo, error) {
	var out models.Layer2BasicInfo
	if err := a.client.get(ctx, "/api/v1/layer2BasicInfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
