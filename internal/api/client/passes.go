package client

import (
	"context"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// TriggerResponse is the reply of the trigger endpoint.
type TriggerResponse struct {
	Dispatched int                 `json:"dispatched"`
	Results    []domain.PassResult `json:"results,omitempty"`
}

// Trigger starts a pass for every registration. With wait it blocks until
// the passes finish and returns their results.
func (c *Client) Trigger(ctx context.Context, wait bool) (*TriggerResponse, error) {
	path := "/api/v1/trigger"
	if wait {
		path += "?wait=true"
	}

	var resp TriggerResponse
	if err := c.post(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegistrationSummary describes one configured registration.
type RegistrationSummary struct {
	Name       string   `json:"name"`
	Recipients int      `json:"recipients"`
	Queries    []string `json:"queries"`
}

// ListRegistrations returns the configured registrations.
func (c *Client) ListRegistrations(ctx context.Context) ([]RegistrationSummary, error) {
	var regs []RegistrationSummary
	if err := c.get(ctx, "/api/v1/registrations", &regs); err != nil {
		return nil, err
	}
	return regs, nil
}
