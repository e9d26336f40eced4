package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/common"
)

// DefaultTimeout bounds every request unless the caller's context is
// stricter. Matches the 10s the web client configures on its axios
// instance.
const DefaultTimeout = 10 * time.Second

// HTTPClient implements Client over the backend's REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://localhost:8080/api". A non-positive timeout falls back to
// DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues one JSON request and decodes the response into out (when
// out is non-nil). Transport faults and timeouts map to
// common.ErrUnavailable; non-2xx statuses map to *APIError carrying the
// server's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: messageFromBody(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}

// messageFromBody pulls "message" out of an error body. The backend is
// not consistent: some endpoints answer {"message": ...}, some answer a
// bare string.
func messageFromBody(data []byte) string {
	var withMessage struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &withMessage); err == nil && withMessage.Message != "" {
		return withMessage.Message
	}
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare
	}
	return ""
}

func (c *HTTPClient) LoginMember(ctx context.Context, username, password string) (models.LoginPayload, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": password,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return models.LoginPayload(raw), nil
}

func (c *HTTPClient) LoginAdmin(ctx context.Context, username, password string) (models.LoginPayload, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodPost, "/admin/login", map[string]string{
		"username": username,
		"password": password,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return models.LoginPayload(raw), nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password, email string) error {
	// New accounts always register as ordinary members.
	return c.do(ctx, http.MethodPost, "/users/register", map[string]any{
		"username": username,
		"password": password,
		"email":    email,
		"role":     models.RoleMember,
	}, nil)
}

func (c *HTTPClient) FetchCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cart/user/%d", userID), nil, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) AddCartItem(ctx context.Context, userID, bookID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", map[string]any{
		"userId":   userID,
		"bookId":   bookID,
		"quantity": quantity,
	}, nil)
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, userID, bookID int64, quantity int) error {
	path := fmt.Sprintf("/cart/user/%d/book/%d", userID, bookID)
	return c.do(ctx, http.MethodPut, path, map[string]any{"quantity": quantity}, nil)
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, userID, bookID int64) error {
	path := fmt.Sprintf("/cart/user/%d/book/%d", userID, bookID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/user/%d/clear", userID), nil, nil)
}

func (c *HTTPClient) FetchWallet(ctx context.Context, userID int64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/wallet/%d", userID), nil, &w)
	return w, err
}

func (c *HTTPClient) Deposit(ctx context.Context, userID int64, amount float64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodPost, "/wallet/deposit", map[string]any{
		"userId": userID,
		"amount": amount,
	}, &w)
	return w, err
}

func (c *HTTPClient) Withdraw(ctx context.Context, userID int64, amount float64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodPost, "/wallet/withdraw", map[string]any{
		"userId": userID,
		"amount": amount,
	}, &w)
	return w, err
}

func (c *HTTPClient) PayOrder(ctx context.Context, userID, orderID int64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodPost, "/wallet/pay", map[string]any{
		"userId":  userID,
		"orderId": orderID,
	}, &w)
	return w, err
}

func (c *HTTPClient) RefundOrder(ctx context.Context, orderID int64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodPost, "/wallet/refund", map[string]any{
		"orderId": orderID,
	}, &w)
	return w, err
}

func (c *HTTPClient) BatchPayOrders(ctx context.Context, userID int64, orderIDs []int64) (models.Wallet, error) {
	var w models.Wallet
	err := c.do(ctx, http.MethodPost, "/wallet/batch-pay", map[string]any{
		"userId":   userID,
		"orderIds": orderIDs,
	}, &w)
	return w, err
}

func (c *HTTPClient) FetchOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), nil, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
