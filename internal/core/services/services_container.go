package services

import (
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/platform/config"
)

// Providers bundles the quote and event collaborators of the ledger services.
type Providers struct {
	FiatRates   portssvc.RateQuoteProvider
	CryptoRates portssvc.RateQuoteProvider
	Events      portssvc.TransferEventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, providers Providers) *portssvc.ServiceContainer {
	selector := NewConversionSelector(providers.FiatRates, providers.CryptoRates, cfg.RateProviderTimeout)

	return &portssvc.ServiceContainer{
		User:    NewUserService(repos.TxManager, repos.UserRepo, repos.BalanceRepo),
		Deposit: NewDepositService(repos.TxManager, repos.UserRepo, repos.BalanceRepo, repos.TransferRepo, providers.Events),
		Swap:    NewSwapService(repos.TxManager, repos.UserRepo, repos.BalanceRepo, repos.TransferRepo, selector, providers.Events),
		History: NewHistoryService(repos.UserRepo, repos.TransferRepo),
	}
}
