package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
)

const CoinGeckoURLBase = "https://api.coingecko.com/api/v3"

// coinGeckoIDs maps crypto currencies to CoinGecko coin ids.
var coinGeckoIDs = map[domain.Currency]string{
	domain.BTC: "bitcoin",
	domain.ETH: "ethereum",
}

// coinGeckoQuotes maps currencies CoinGecko can quote a coin in to vs_currency codes.
var coinGeckoQuotes = map[domain.Currency]string{
	domain.BTC: "btc",
	domain.ETH: "eth",
	domain.USD: "usd",
}

// CoinGecko quotes crypto pairs and crypto/USD pairs.
type CoinGecko struct {
	baseURL string
	client  *http.Client
}

var _ portssvc.RateQuoteProvider = (*CoinGecko)(nil)

// NewCoinGecko constructs a CoinGecko provider. An empty baseURL selects the public API.
func NewCoinGecko(baseURL string, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = CoinGeckoURLBase
	}
	return &CoinGecko{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// GetRate returns how many units of to one unit of from buys.
// (USD, X) is answered as the inverse of X priced in USD.
func (p *CoinGecko) GetRate(ctx context.Context, from, to domain.Currency) (domain.Rate, error) {
	if from == to {
		return domain.Rate{}, fmt.Errorf("%w: coingecko has no quote for identical pair %s", apperrors.ErrRateUnavailable, from)
	}
	if from == domain.USD {
		inverse, err := p.GetRate(ctx, to, domain.USD)
		if err != nil {
			return domain.Rate{}, err
		}
		return inverse.Inverse(), nil
	}

	coinID, ok := coinGeckoIDs[from]
	if !ok {
		return domain.Rate{}, fmt.Errorf("%w: coingecko cannot price %s", apperrors.ErrRateUnavailable, from)
	}
	quote, ok := coinGeckoQuotes[to]
	if !ok {
		return domain.Rate{}, fmt.Errorf("%w: coingecko cannot quote in %s", apperrors.ErrRateUnavailable, to)
	}

	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", quote)
	endpoint := fmt.Sprintf("%s/simple/price?%s", p.baseURL, query.Encode())

	var response map[string]map[string]json.Number
	if err := getJSON(ctx, p.client, endpoint, &response); err != nil {
		return domain.Rate{}, fmt.Errorf("coingecko %s/%s: %w", from, to, err)
	}

	price, ok := response[coinID][quote]
	if !ok {
		return domain.Rate{}, fmt.Errorf("%w: coingecko response has no %s/%s price", apperrors.ErrRateUnavailable, coinID, quote)
	}
	rate, err := domain.ParseRate(price.String())
	if err != nil {
		return domain.Rate{}, fmt.Errorf("coingecko %s/%s: %w", from, to, err)
	}
	return rate, nil
}
