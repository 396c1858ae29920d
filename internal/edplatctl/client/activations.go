package client

import (
	"context"
	"net/http"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

// Activate redeems an access code for a video
func (c *Client) Activate(ctx context.Context, key, code string) (*v1alpha1.Activation, error) {
	var act v1alpha1.Activation
	req := v1alpha1.ActivateRequest{Code: code}
	if err := c.doRequest(ctx, http.MethodPost, "/videos/"+key+"/activate", req, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

// Deactivate revokes the caller's activation for a video
func (c *Client) Deactivate(ctx context.Context, key string) (string, error) {
	var resp v1alpha1.DeactivateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/videos/"+key+"/deactivate", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListMyActivations returns the caller's live activations
func (c *Client) ListMyActivations(ctx context.Context) ([]v1alpha1.Activation, error) {
	var list v1alpha1.ListResponse[v1alpha1.Activation]
	if err := c.doRequest(ctx, http.MethodGet, "/videos/activations", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ListActivations returns every stored activation
func (c *Client) ListActivations(ctx context.Context) ([]v1alpha1.Activation, error) {
	var list v1alpha1.ListResponse[v1alpha1.Activation]
	if err := c.doRequest(ctx, http.MethodGet, "/activations", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ValidateCode reports who redeemed a code and for which video
func (c *Client) ValidateCode(ctx context.Context, code string) (*v1alpha1.ValidateResponse, error) {
	var resp v1alpha1.ValidateResponse
	req := v1alpha1.ValidateRequest{Code: code}
	if err := c.doRequest(ctx, http.MethodPost, "/activations/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
