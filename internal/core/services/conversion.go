package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultRateTimeout bounds each rate lookup when none is configured.
const DefaultRateTimeout = 5 * time.Second

// ConversionPath names how a currency pair is priced.
type ConversionPath string

const (
	PathFiatToFiat     ConversionPath = "FIAT_TO_FIAT"
	PathCryptoToCrypto ConversionPath = "CRYPTO_TO_CRYPTO"
	PathCrossClass     ConversionPath = "CROSS_CLASS"
)

// ClassifyPair picks the conversion path from the currency classes alone.
// Both currencies must be supported.
func ClassifyPair(from, to domain.Currency) ConversionPath {
	switch {
	case from.IsFiat() && to.IsFiat():
		return PathFiatToFiat
	case from.IsCrypto() && to.IsCrypto():
		return PathCryptoToCrypto
	default:
		return PathCrossClass
	}
}

// SwapInput is what a strategy needs to price and draft one swap.
type SwapInput struct {
	UserID string
	From   domain.Currency
	To     domain.Currency
	Amount domain.Money
	Source domain.BalanceEntry
}

// SwapStrategy prices a swap and drafts its two PENDING legs. Drafts are never persisted here.
type SwapStrategy interface {
	Path() ConversionPath
	ExecuteSwap(ctx context.Context, in SwapInput) (*domain.SwapLegs, error)
}

// ConversionSelector chooses and runs the strategy for a currency pair.
// Fiat pairs are quoted by the fiat provider, crypto/USD pairs by the crypto provider.
type ConversionSelector struct {
	fiat    portssvc.RateQuoteProvider
	crypto  portssvc.RateQuoteProvider
	timeout time.Duration
	now     func() time.Time
}

func NewConversionSelector(fiat, crypto portssvc.RateQuoteProvider, timeout time.Duration) *ConversionSelector {
	if timeout <= 0 {
		timeout = DefaultRateTimeout
	}
	return &ConversionSelector{fiat: fiat, crypto: crypto, timeout: timeout, now: time.Now}
}

// Select validates both currencies and returns the strategy for the pair.
func (s *ConversionSelector) Select(from, to domain.Currency) (SwapStrategy, error) {
	for _, c := range []domain.Currency{from, to} {
		if !c.IsSupported() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedCurrency, c)
		}
	}

	base := strategyBase{quoter: quoter{timeout: s.timeout}, now: s.now}
	switch ClassifyPair(from, to) {
	case PathFiatToFiat:
		return fiatToFiat{strategyBase: base, provider: s.fiat}, nil
	case PathCryptoToCrypto:
		return cryptoToCrypto{strategyBase: base, provider: s.crypto}, nil
	default:
		return crossClass{strategyBase: base, fiat: s.fiat, crypto: s.crypto}, nil
	}
}

// ExecuteSwap selects the strategy for the pair and runs it.
func (s *ConversionSelector) ExecuteSwap(ctx context.Context, in SwapInput) (*domain.SwapLegs, error) {
	strategy, err := s.Select(in.From, in.To)
	if err != nil {
		return nil, err
	}
	return strategy.ExecuteSwap(ctx, in)
}

// quoter applies the per-call timeout and normalizes provider failures.
type quoter struct {
	timeout time.Duration
}

func (q quoter) quote(ctx context.Context, provider portssvc.RateQuoteProvider, from, to domain.Currency) (domain.Rate, error) {
	if provider == nil {
		return domain.Rate{}, fmt.Errorf("%w: no provider for %s/%s", apperrors.ErrRateUnavailable, from, to)
	}
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	rate, err := provider.GetRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			return domain.Rate{}, err
		}
		return domain.Rate{}, fmt.Errorf("%w: %s/%s: %v", apperrors.ErrRateUnavailable, from, to, err)
	}
	if !rate.IsValid() {
		return domain.Rate{}, fmt.Errorf("%w: %s/%s rate %s is not positive", apperrors.ErrRateUnavailable, from, to, rate)
	}
	return rate, nil
}

// strategyBase holds the steps every strategy shares.
type strategyBase struct {
	quoter
	now func() time.Time
}

// execute checks sufficiency before any network call, resolves the rate, and drafts the legs.
func (b strategyBase) execute(ctx context.Context, in SwapInput, resolve func(ctx context.Context) (domain.Rate, error)) (*domain.SwapLegs, error) {
	if err := in.Source.CheckSufficient(in.Amount); err != nil {
		return nil, err
	}
	rate, err := resolve(ctx)
	if err != nil {
		return nil, err
	}
	return b.draftLegs(in, rate), nil
}

func (b strategyBase) draftLegs(in SwapInput, rate domain.Rate) *domain.SwapLegs {
	createdAt := b.now().UTC().Truncate(time.Microsecond)
	reference := ulid.MustNew(ulid.Timestamp(createdAt), ulid.DefaultEntropy()).String()

	debit := domain.TransferRecord{
		TransferID: uuid.NewString(),
		Kind:       domain.KindSwap,
		UserID:     in.UserID,
		Status:     domain.StatusPending,
		Amount:     in.Amount.Neg(),
		Currency:   in.From,
		Reference:  &reference,
		CreatedAt:  createdAt,
	}
	credit := debit
	credit.TransferID = uuid.NewString()
	credit.Amount = in.Amount.Multiply(rate)
	credit.Currency = in.To

	return &domain.SwapLegs{Debit: debit, Credit: credit, Rate: rate}
}

// fiatToFiat prices the pair with a single fiat quote.
type fiatToFiat struct {
	strategyBase
	provider portssvc.RateQuoteProvider
}

func (fiatToFiat) Path() ConversionPath { return PathFiatToFiat }

func (s fiatToFiat) ExecuteSwap(ctx context.Context, in SwapInput) (*domain.SwapLegs, error) {
	return s.execute(ctx, in, func(ctx context.Context) (domain.Rate, error) {
		return s.quote(ctx, s.provider, in.From, in.To)
	})
}

// cryptoToCrypto prices the pair with a single crypto quote.
type cryptoToCrypto struct {
	strategyBase
	provider portssvc.RateQuoteProvider
}

func (cryptoToCrypto) Path() ConversionPath { return PathCryptoToCrypto }

func (s cryptoToCrypto) ExecuteSwap(ctx context.Context, in SwapInput) (*domain.SwapLegs, error) {
	return s.execute(ctx, in, func(ctx context.Context) (domain.Rate, error) {
		return s.quote(ctx, s.provider, in.From, in.To)
	})
}

// crossClass routes a fiat/crypto pair through USD: from->USD, then USD->to.
// A leg whose end is already USD is skipped. The two legs are independent and
// looked up concurrently.
type crossClass struct {
	strategyBase
	fiat   portssvc.RateQuoteProvider
	crypto portssvc.RateQuoteProvider
}

func (crossClass) Path() ConversionPath { return PathCrossClass }

// providerFor returns the provider that quotes c against USD.
func (s crossClass) providerFor(c domain.Currency) portssvc.RateQuoteProvider {
	if c.IsCrypto() {
		return s.crypto
	}
	return s.fiat
}

func (s crossClass) ExecuteSwap(ctx context.Context, in SwapInput) (*domain.SwapLegs, error) {
	return s.execute(ctx, in, func(ctx context.Context) (domain.Rate, error) {
		toUSD := domain.MustParseRate("1")
		fromUSD := toUSD

		g, gctx := errgroup.WithContext(ctx)
		if in.From != domain.USD {
			g.Go(func() error {
				r, err := s.quote(gctx, s.providerFor(in.From), in.From, domain.USD)
				toUSD = r
				return err
			})
		}
		if in.To != domain.USD {
			g.Go(func() error {
				r, err := s.quote(gctx, s.providerFor(in.To), domain.USD, in.To)
				fromUSD = r
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return domain.Rate{}, err
		}
		return toUSD.Times(fromUSD), nil
	})
}
