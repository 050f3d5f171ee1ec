package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// SeenResetter empties the seen-set.
type SeenResetter interface {
	ResetSeen(ctx context.Context) error
}

// ResetHandler handles seen-set resets.
type ResetHandler struct {
	resetter SeenResetter
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(r SeenResetter) *ResetHandler {
	return &ResetHandler{resetter: r}
}

// ResetOutput is the response for the reset endpoint.
type ResetOutput struct {
	Body struct {
		Success bool `json:"success" example:"true" doc:"Always true when the seen-set was emptied"`
	}
}

// Reset replaces the seen-set with an empty one.
func (h *ResetHandler) Reset(ctx context.Context, _ *struct{}) (*ResetOutput, error) {
	if err := h.resetter.ResetSeen(ctx); err != nil {
		return nil, huma.Error500InternalServerError("reset failed: " + err.Error())
	}

	resp := &ResetOutput{}
	resp.Body.Success = true
	return resp, nil
}

// RegisterResetRoutes registers the reset endpoint with the Huma API.
func RegisterResetRoutes(api huma.API, h *ResetHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "reset-seen",
		Method:      http.MethodPost,
		Path:        "/api/v1/reset",
		Summary:     "Reset the seen-set",
		Description: "Forgets every listing seen so far. The next pass reports all listings as new.",
		Tags:        []string{"seen"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Reset)
}
