package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// RegistrationLister exposes the configured registrations.
type RegistrationLister interface {
	Registrations() []domain.Registration
}

// RegistrationsHandler handles GET /api/v1/registrations.
type RegistrationsHandler struct {
	lister RegistrationLister
}

// NewRegistrationsHandler creates a RegistrationsHandler.
func NewRegistrationsHandler(l RegistrationLister) *RegistrationsHandler {
	return &RegistrationsHandler{lister: l}
}

// RegistrationSummary describes a registration without exposing recipient
// IDs or query URLs.
type RegistrationSummary struct {
	Name       string   `json:"name"       example:"tel-aviv-4-rooms"`
	Recipients int      `json:"recipients" example:"2"                doc:"Number of recipients"`
	Queries    []string `json:"queries"                               doc:"Query names in sorted order"`
}

// RegistrationsOutput is the response for GET /api/v1/registrations.
type RegistrationsOutput struct {
	Body []RegistrationSummary
}

// ListRegistrations returns a summary of every registration.
func (h *RegistrationsHandler) ListRegistrations(
	_ context.Context,
	_ *struct{},
) (*RegistrationsOutput, error) {
	regs := h.lister.Registrations()
	out := make([]RegistrationSummary, 0, len(regs))
	for i := range regs {
		out = append(out, RegistrationSummary{
			Name:       regs[i].Name,
			Recipients: len(regs[i].To),
			Queries:    regs[i].QueryNames(),
		})
	}
	return &RegistrationsOutput{Body: out}, nil
}

// RegisterRegistrationRoutes registers the registrations route on the Huma API.
func RegisterRegistrationRoutes(api huma.API, h *RegistrationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-registrations",
		Method:      http.MethodGet,
		Path:        "/api/v1/registrations",
		Summary:     "List registrations",
		Description: "Returns the configured registrations with recipient counts and query names.",
		Tags:        []string{"registrations"},
	}, h.ListRegistrations)
}
