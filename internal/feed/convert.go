package feed

import (
	"encoding/json"
	"strconv"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// ToListings converts raw feed entries into domain listings, dropping entries
// that are not objects or carry no identifier. Entry order is preserved.
func ToListings(items []json.RawMessage) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for _, raw := range items {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		l, ok := toListing(&item)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

func toListing(item *Item) (domain.Listing, bool) {
	id, err := domain.ParseID(item.ID)
	if err != nil || id == "" {
		return domain.Listing{}, false
	}
	return domain.Listing{
		ID:     id,
		Price:  parsePrice(item.Price),
		Images: parseImages(item.Images),
	}, true
}

// parsePrice falls back to the raw JSON text when the price is neither a
// string nor a number.
func parsePrice(raw json.RawMessage) domain.Price {
	var p domain.Price
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Price(raw)
	}
	return p
}

// parseImages accepts the keyed object form and the list form the feed uses
// when a listing has no keyed images. List entries are keyed by index from 0.
func parseImages(raw json.RawMessage) map[string]domain.Image {
	if len(raw) == 0 {
		return nil
	}

	var keyed map[string]domain.Image
	if err := json.Unmarshal(raw, &keyed); err == nil {
		return keyed
	}

	var list []domain.Image
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return nil
	}
	images := make(map[string]domain.Image, len(list))
	for i, img := range list {
		images[strconv.Itoa(i)] = img
	}
	return images
}
