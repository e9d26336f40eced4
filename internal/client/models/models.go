// Package models defines client-side data models shared by the storefront
// session, cart, wallet, and orders stores.
package models

import "encoding/json"

// Role values as stored by the backend on the user record.
const (
	RoleMember = 0
	RoleAdmin  = 1
)

// UserProfile is the authenticated identity as returned by the login
// endpoints. Balance is a pointer because the admin login shape does not
// carry one; it is the only field mutated outside login/logout (wallet
// operations report a new balance).
type UserProfile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Role     int      `json:"role"`
	Balance  *float64 `json:"balance,omitempty"`
}

// BookSummary is the minimal book shape the cart depends on.
type BookSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// CartItem is one cart line. ServerItemID is set once the item has been
// observed on the remote store; it is absent for guest-only items.
type CartItem struct {
	ServerItemID *int64      `json:"id,omitempty"`
	Book         BookSummary `json:"book"`
	Quantity     int         `json:"quantity"`
	UserID       *int64      `json:"userId,omitempty"`
}

// Order statuses used by the pending-count refresh.
const (
	OrderStatusPendingPayment = 0
	OrderStatusPaid           = 1
	OrderStatusCancelled      = 2
)

// Order is the subset of the remote order record the client reads.
type Order struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Status      int     `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

// Wallet is the balance record returned by the wallet endpoints.
type Wallet struct {
	UserID  int64   `json:"userId"`
	Balance float64 `json:"balance"`
}

// LoginPayload is the undecoded body of a login response. The three
// historical shapes ({success,user,token}, {success,admin}, bare user
// object) are normalized by the session store, not by the transport.
type LoginPayload = json.RawMessage
