package cli

import (
	"context"
	"os"

	"github.com/smartbookcity/storefront/internal/client/session"
	"github.com/smartbookcity/storefront/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email, and password and attempts to
// create a member account. The password byte slice is wiped before
// returning. A rejected registration prints the server's message.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Register(ctx, username, string(password), email)
	if !res.Success {
		printlnFn(res.Message)
		return nil
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates as a member. On
// success the guest cart is pushed to the server, the merged remote cart
// pulled back, and the pending-order badge refreshed.
func (a *App) Login(ctx context.Context) error {
	return a.login(ctx, session.LoginTypeMember)
}

// LoginAdmin is Login against the administrator endpoint.
func (a *App) LoginAdmin(ctx context.Context) error {
	return a.login(ctx, session.LoginTypeAdmin)
}

func (a *App) login(ctx context.Context, loginType string) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, username, string(password), loginType)
	if !res.Success {
		printlnFn(res.Message)
		return nil
	}
	printlnFn("Login successful")

	// Guest-accumulated items migrate to the account cart, then the
	// merged remote cart becomes the local truth.
	if len(a.cart.Snapshot()) > 0 {
		if err := a.cart.SyncToServer(ctx); err != nil {
			a.log.Warn(ctx, "cart push after login failed", "error", err)
		}
	}
	if err := a.cart.FetchFromRemote(ctx); err != nil {
		a.log.Warn(ctx, "cart pull after login failed", "error", err)
	}
	if err := a.orders.RequestRefresh(ctx); err != nil {
		a.log.Warn(ctx, "pending order refresh after login failed", "error", err)
	}
	return nil
}

// Logout ends the session. The durable cart stays put: it is keyed
// per-device, not per-session, so the next guest keeps their items.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.orders.Reset()
	printlnFn("Logged out")
	return nil
}
