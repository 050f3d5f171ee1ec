package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/listing-notifier/internal/engine"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Dispatcher starts one pass per configured registration.
type Dispatcher interface {
	Dispatch(ctx context.Context, trigger string) []*engine.Pass
}

// TriggerHandler handles inbound pass triggers.
type TriggerHandler struct {
	dispatcher Dispatcher
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(d Dispatcher) *TriggerHandler {
	return &TriggerHandler{dispatcher: d}
}

// TriggerInput is the request for the trigger endpoint.
type TriggerInput struct {
	Wait bool `query:"wait" doc:"Wait for every pass to finish and report the results"`
}

// TriggerOutput is the response for the trigger endpoint.
type TriggerOutput struct {
	Status int
	Body   struct {
		Dispatched int                 `json:"dispatched"        example:"2" doc:"Number of passes started"`
		Results    []domain.PassResult `json:"results,omitempty"             doc:"Per-registration outcome when wait=true"`
	}
}

// Trigger starts a pass for every registration. Passes outlive the request;
// with wait=true the response is held until they finish.
func (h *TriggerHandler) Trigger(ctx context.Context, input *TriggerInput) (*TriggerOutput, error) {
	passes := h.dispatcher.Dispatch(context.WithoutCancel(ctx), engine.TriggerHTTP)

	resp := &TriggerOutput{Status: http.StatusAccepted}
	resp.Body.Dispatched = len(passes)

	if !input.Wait {
		return resp, nil
	}

	results := make([]domain.PassResult, 0, len(passes))
	for _, p := range passes {
		res, err := p.Wait(ctx)
		if err != nil {
			return nil, huma.Error503ServiceUnavailable("waiting for passes: " + err.Error())
		}
		results = append(results, res)
	}
	resp.Status = http.StatusOK
	resp.Body.Results = results
	return resp, nil
}

// RegisterTriggerRoutes registers trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "trigger-passes",
		Method:        http.MethodPost,
		Path:          "/api/v1/trigger",
		Summary:       "Trigger passes",
		Description:   "Starts a fetch, reconcile and notify pass for every registration without waiting for them.",
		Tags:          []string{"passes"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusServiceUnavailable},
	}, h.Trigger)

	// Schedulers and uptime pingers that can only issue GET requests.
	huma.Register(api, huma.Operation{
		OperationID:   "trigger-passes-get",
		Method:        http.MethodGet,
		Path:          "/api/v1/trigger",
		Summary:       "Trigger passes (GET)",
		Description:   "Same as POST /api/v1/trigger.",
		Tags:          []string{"passes"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusServiceUnavailable},
	}, h.Trigger)
}
