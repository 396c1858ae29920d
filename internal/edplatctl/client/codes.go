package client

import (
	"context"
	"net/http"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

// GenerateCode issues a new access code
func (c *Client) GenerateCode(ctx context.Context) (*v1alpha1.AccessCode, error) {
	var code v1alpha1.AccessCode
	if err := c.doRequest(ctx, http.MethodPost, "/codes/generate", nil, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// ListCodes returns every access code
func (c *Client) ListCodes(ctx context.Context) ([]v1alpha1.AccessCode, error) {
	var list v1alpha1.ListResponse[v1alpha1.AccessCode]
	if err := c.doRequest(ctx, http.MethodGet, "/codes", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}
