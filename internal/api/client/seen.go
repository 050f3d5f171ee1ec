package client

import (
	"context"
	"errors"
)

// SeenResponse is the reply of the seen-set endpoint.
type SeenResponse struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Seen returns the persisted seen-set.
func (c *Client) Seen(ctx context.Context) (*SeenResponse, error) {
	var resp SeenResponse
	if err := c.get(ctx, "/api/v1/seen", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset empties the seen-set.
func (c *Client) Reset(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/api/v1/reset", &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("reset was not acknowledged")
	}
	return nil
}
