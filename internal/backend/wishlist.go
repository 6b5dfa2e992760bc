package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"jobgenie-engine/internal/domain"
)

// WishlistResult is a successful company search.
type WishlistResult struct {
	Companies []domain.Company `json:"companies"`
	Total     int              `json:"total"`
}

type wishlistResponse struct {
	Success   bool              `json:"success"`
	Total     int               `json:"total"`
	Companies []json.RawMessage `json:"companies"`
}

// GenerateWishlist runs the company search for the given filters. Transport
// errors, non-2xx statuses, malformed bodies and success:false all come back
// as ErrWishlistGenerationFailed.
func (c *Client) GenerateWishlist(ctx context.Context, filters url.Values) (WishlistResult, error) {
	var resp wishlistResponse
	status, err := c.do(ctx, c.anon, http.MethodPost, "/api/wishlist/generate", filters, nil, &resp)
	switch {
	case err != nil:
		return WishlistResult{}, fmt.Errorf("%w: %v", ErrWishlistGenerationFailed, err)
	case !ok(status):
		return WishlistResult{}, fmt.Errorf("%w: status %d", ErrWishlistGenerationFailed, status)
	case !resp.Success:
		return WishlistResult{}, fmt.Errorf("%w: success=false", ErrWishlistGenerationFailed)
	}

	companies := make([]domain.Company, 0, len(resp.Companies))
	for i, raw := range resp.Companies {
		var co domain.Company
		if err := json.Unmarshal(raw, &co); err != nil {
			return WishlistResult{}, fmt.Errorf("%w: company %d: %v", ErrWishlistGenerationFailed, i, err)
		}
		co.Raw = raw
		companies = append(companies, co)
	}
	return WishlistResult{Companies: companies, Total: resp.Total}, nil
}
