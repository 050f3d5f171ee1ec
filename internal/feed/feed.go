// Package feed fetches listing search results from the upstream real-estate
// feed and converts them into domain listings.
package feed

import (
	"context"
	"encoding/json"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Fetcher issues one read against an upstream query URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.Listing, error)
}

// Response is the upstream search response body.
type Response struct {
	Feed *Body `json:"feed"`
}

// Body is the "feed" object of a search response. Items are kept raw because
// the array also carries non-object entries such as string banners.
type Body struct {
	Items []json.RawMessage `json:"feed_items"`
}

// Item is a single feed entry. Entries without an identifier (ads, banners,
// section headers) share the same array as real listings.
type Item struct {
	ID     json.RawMessage `json:"id"`
	Price  json.RawMessage `json:"price"`
	Images json.RawMessage `json:"images"`
}
