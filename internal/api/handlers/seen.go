package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// SeenReader loads the seen-set.
type SeenReader interface {
	SeenSet(ctx context.Context) (*domain.SeenSet, error)
}

// SeenHandler handles GET /api/v1/seen.
type SeenHandler struct {
	reader SeenReader
}

// NewSeenHandler creates a SeenHandler.
func NewSeenHandler(r SeenReader) *SeenHandler {
	return &SeenHandler{reader: r}
}

// SeenOutput is the response for GET /api/v1/seen.
type SeenOutput struct {
	Body struct {
		Count int      `json:"count" example:"3" doc:"Number of identifiers seen"`
		IDs   []string `json:"ids"             doc:"Seen identifiers in insertion order"`
	}
}

// GetSeen returns the persisted seen-set.
func (h *SeenHandler) GetSeen(ctx context.Context, _ *struct{}) (*SeenOutput, error) {
	set, err := h.reader.SeenSet(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load seen-set")
	}

	resp := &SeenOutput{}
	resp.Body.IDs = set.Data
	if resp.Body.IDs == nil {
		resp.Body.IDs = []string{}
	}
	resp.Body.Count = len(resp.Body.IDs)
	return resp, nil
}

// RegisterSeenRoutes registers the seen-set route on the Huma API.
func RegisterSeenRoutes(api huma.API, h *SeenHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-seen",
		Method:      http.MethodGet,
		Path:        "/api/v1/seen",
		Summary:     "Get the seen-set",
		Description: "Returns every listing identifier recorded so far.",
		Tags:        []string{"seen"},
	}, h.GetSeen)
}
