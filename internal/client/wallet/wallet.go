// Package wallet exposes the balance operations: fetch, deposit,
// withdraw, and the order payment flows. The wallet itself lives
// server-side; this service relays mutations and pushes the reported
// balance back into the session so the profile shown locally stays
// current.
package wallet

import (
	"context"
	"sync"

	"github.com/smartbookcity/storefront/internal/client/api"
	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/common"
	"github.com/smartbookcity/storefront/internal/logging"
)

// API is the slice of the remote capability the wallet service calls.
type API interface {
	FetchWallet(ctx context.Context, userID int64) (models.Wallet, error)
	Deposit(ctx context.Context, userID int64, amount float64) (models.Wallet, error)
	Withdraw(ctx context.Context, userID int64, amount float64) (models.Wallet, error)
	PayOrder(ctx context.Context, userID, orderID int64) (models.Wallet, error)
	RefundOrder(ctx context.Context, orderID int64) (models.Wallet, error)
	BatchPayOrders(ctx context.Context, userID int64, orderIDs []int64) (models.Wallet, error)
}

// Session is what the wallet needs from the session store: the current
// user and a way to push a fresh balance into the cached profile.
type Session interface {
	Current() (models.UserProfile, bool)
	UpdateBalance(ctx context.Context, balance float64)
}

// Service relays wallet operations to the remote store.
type Service struct {
	api     API
	session Session
	log     logging.Logger

	mu      sync.Mutex
	lastErr string
}

func New(apiClient API, session Session, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:     apiClient,
		session: session,
		log:     log,
	}
}

// Fetch reads the wallet for the current user and updates the cached
// balance.
func (s *Service) Fetch(ctx context.Context) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletFetchFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.FetchWallet(ctx, userID)
	})
}

// Deposit adds amount to the wallet.
func (s *Service) Deposit(ctx context.Context, amount float64) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletDepositFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.Deposit(ctx, userID, amount)
	})
}

// Withdraw removes amount from the wallet. Overdrafts are the server's
// call; a rejection comes back as a server message.
func (s *Service) Withdraw(ctx context.Context, amount float64) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletWithdrawFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.Withdraw(ctx, userID, amount)
	})
}

// PayOrder settles a single order from the wallet balance.
func (s *Service) PayOrder(ctx context.Context, orderID int64) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletPayFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.PayOrder(ctx, userID, orderID)
	})
}

// RefundOrder returns an order's amount to the wallet.
func (s *Service) RefundOrder(ctx context.Context, orderID int64) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletRefundFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.RefundOrder(ctx, orderID)
	})
}

// BatchPay settles several orders in one remote call.
func (s *Service) BatchPay(ctx context.Context, orderIDs []int64) (models.Wallet, error) {
	return s.call(ctx, common.MsgWalletBatchPayFailed, func(ctx context.Context, userID int64) (models.Wallet, error) {
		return s.api.BatchPayOrders(ctx, userID, orderIDs)
	})
}

// LastError is the most recent wallet failure message, empty when the
// last operation succeeded.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// call runs one wallet operation for the authenticated user and, on
// success, pushes the returned balance into the session profile.
func (s *Service) call(ctx context.Context, failMsg string, op func(ctx context.Context, userID int64) (models.Wallet, error)) (models.Wallet, error) {
	user, ok := s.session.Current()
	if !ok {
		return models.Wallet{}, common.ErrNotAuthenticated
	}

	w, err := op(ctx, user.ID)
	if err != nil {
		msg := api.ErrorMessage(err)
		if msg == "" {
			msg = failMsg
		}
		s.mu.Lock()
		s.lastErr = msg
		s.mu.Unlock()
		s.log.Warn(ctx, "wallet operation failed", "error", err)
		return models.Wallet{}, err
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
	s.session.UpdateBalance(ctx, w.Balance)
	return w, nil
}
