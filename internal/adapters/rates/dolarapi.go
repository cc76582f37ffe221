package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
)

const DolarAPIURLBase = "https://dolarapi.com"

// DolarAPI quotes USD/ARS from the "blue" market sell price.
type DolarAPI struct {
	baseURL string
	client  *http.Client
}

var _ portssvc.RateQuoteProvider = (*DolarAPI)(nil)

// NewDolarAPI constructs a DolarAPI provider. An empty baseURL selects the public API.
func NewDolarAPI(baseURL string, timeout time.Duration) *DolarAPI {
	if baseURL == "" {
		baseURL = DolarAPIURLBase
	}
	return &DolarAPI{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// GetRate supports exactly (USD, ARS) and (ARS, USD).
func (p *DolarAPI) GetRate(ctx context.Context, from, to domain.Currency) (domain.Rate, error) {
	if !(from == domain.USD && to == domain.ARS) && !(from == domain.ARS && to == domain.USD) {
		return domain.Rate{}, fmt.Errorf("%w: dolarapi cannot quote %s/%s", apperrors.ErrRateUnavailable, from, to)
	}

	var response struct {
		Compra json.Number `json:"compra"`
		Venta  json.Number `json:"venta"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"/v1/dolares/blue", &response); err != nil {
		return domain.Rate{}, fmt.Errorf("dolarapi %s/%s: %w", from, to, err)
	}

	venta, err := domain.ParseRate(response.Venta.String())
	if err != nil {
		return domain.Rate{}, fmt.Errorf("dolarapi %s/%s: %w", from, to, err)
	}
	if from == domain.ARS {
		return venta.Inverse(), nil
	}
	return venta, nil
}
