// Package api is the remote API capability the storefront stores talk
// to: the bookstore backend's JSON endpoints for login, registration,
// cart, wallet, and orders.
package api

import (
	"context"

	"github.com/smartbookcity/storefront/internal/client/models"
)

// Client defines the remote operations the client core depends on.
//
// Login endpoints hand back the undecoded payload because the backend's
// response shapes are not uniform ({success,user,token}, {success,admin},
// bare user object); normalization is the session store's job.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	LoginMember(ctx context.Context, username, password string) (models.LoginPayload, error)
	LoginAdmin(ctx context.Context, username, password string) (models.LoginPayload, error)
	Register(ctx context.Context, username, password, email string) error

	FetchCart(ctx context.Context, userID int64) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, userID, bookID int64, quantity int) error
	UpdateCartItem(ctx context.Context, userID, bookID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, bookID int64) error
	ClearCart(ctx context.Context, userID int64) error

	FetchWallet(ctx context.Context, userID int64) (models.Wallet, error)
	Deposit(ctx context.Context, userID int64, amount float64) (models.Wallet, error)
	Withdraw(ctx context.Context, userID int64, amount float64) (models.Wallet, error)
	PayOrder(ctx context.Context, userID, orderID int64) (models.Wallet, error)
	RefundOrder(ctx context.Context, orderID int64) (models.Wallet, error)
	BatchPayOrders(ctx context.Context, userID int64, orderIDs []int64) (models.Wallet, error)

	FetchOrders(ctx context.Context, userID int64) ([]models.Order, error)

	// SetToken installs (or clears, with "") the bearer token attached
	// to subsequent requests. The session store owns the token's
	// lifecycle.
	SetToken(token string)
}
