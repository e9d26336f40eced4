package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/smartbookcity/storefront/internal/client/api"
	"github.com/smartbookcity/storefront/internal/client/cart"
	"github.com/smartbookcity/storefront/internal/client/config"
	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/client/orders"
	"github.com/smartbookcity/storefront/internal/client/session"
	"github.com/smartbookcity/storefront/internal/client/storage"
	"github.com/smartbookcity/storefront/internal/client/tab"
	"github.com/smartbookcity/storefront/internal/client/wallet"
	"github.com/smartbookcity/storefront/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionService is the slice of the session store the CLI drives.
type sessionService interface {
	Login(ctx context.Context, username, password, loginType string) session.Result
	Register(ctx context.Context, username, password, email string) session.Result
	Logout(ctx context.Context) error
	Hydrate(ctx context.Context) error
	Current() (models.UserProfile, bool)
	IsAuthenticated() bool
	IsAdmin() bool
}

// cartService is the slice of the cart engine the CLI drives.
type cartService interface {
	AddItem(ctx context.Context, book models.BookSummary, quantity int) error
	RemoveItem(ctx context.Context, bookID int64) error
	UpdateQuantity(ctx context.Context, bookID int64, quantity int) error
	Clear(ctx context.Context) error
	FetchFromRemote(ctx context.Context) error
	SyncToServer(ctx context.Context) error
	LoadFromDurable(ctx context.Context) error
	Snapshot() []models.CartItem
	TotalItems() int
	TotalPrice() float64
	LastError() string
	Wait()
}

// walletService is the slice of the wallet service the CLI drives.
type walletService interface {
	Fetch(ctx context.Context) (models.Wallet, error)
	Deposit(ctx context.Context, amount float64) (models.Wallet, error)
	Withdraw(ctx context.Context, amount float64) (models.Wallet, error)
	PayOrder(ctx context.Context, orderID int64) (models.Wallet, error)
	LastError() string
}

// ordersService is the slice of the pending-order counter the CLI drives.
type ordersService interface {
	RequestRefresh(ctx context.Context) error
	Reset()
	Count() int
}

type App struct {
	config  *config.Config
	session sessionService
	cart    cartService
	wallet  walletService
	orders  ordersService
	db      *sql.DB
	tabID   string
	reader  *bufio.Reader
	log     logging.Logger
}

// NewApp wires the full client: SQLite-backed key/value store, tab
// identity, HTTP API client, and the four stores on top. The previous
// session is hydrated and the durable cart loaded before the first
// prompt, so a restarted client picks up where it left off.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}

	kv, db, err := storage.OpenSQLite(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	// Each process run is one tab; the identity lives in a volatile slot
	// exactly as it would in a browser's per-tab storage.
	tabID := tab.NewProvider(storage.NewMemorySlot(), log).GetOrCreate()

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)

	sess := session.New(apiClient, kv, tabID, log)
	crt := cart.New(apiClient, kv, sess, log)
	wlt := wallet.New(apiClient, sess, log)
	ord := orders.NewCounter(apiClient, sess, c.PendingRefreshInterval, log)

	if err := sess.Hydrate(ctx); err != nil {
		log.Warn(ctx, "session hydrate failed", "error", err)
	}
	if err := crt.LoadFromDurable(ctx); err != nil {
		log.Warn(ctx, "cart load failed", "error", err)
	}

	return &App{
		config:  c,
		session: sess,
		cart:    crt,
		wallet:  wlt,
		orders:  ord,
		db:      db,
		tabID:   tabID,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}, nil
}

// Run starts the REPL and blocks until the user exits. Outstanding cart
// mirrors are drained before the database is closed.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.cart.Wait()
		_ = a.db.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
