package cli

import (
	"context"
	"fmt"
)

// WalletShow fetches and prints the wallet balance.
func (a *App) WalletShow(ctx context.Context) error {
	w, err := a.wallet.Fetch(ctx)
	if err != nil {
		printlnFn(a.walletError(err))
		return err
	}
	printlnFn(fmt.Sprintf("Balance: %.2f", w.Balance))
	return nil
}

// Deposit prompts for an amount and adds it to the wallet.
func (a *App) Deposit(ctx context.Context) error {
	amount, err := a.getFloat("Amount")
	if err != nil || amount <= 0 {
		printlnFn("Invalid amount")
		return err
	}
	w, err := a.wallet.Deposit(ctx, amount)
	if err != nil {
		printlnFn(a.walletError(err))
		return err
	}
	printlnFn(fmt.Sprintf("Balance: %.2f", w.Balance))
	return nil
}

// Withdraw prompts for an amount and removes it from the wallet.
func (a *App) Withdraw(ctx context.Context) error {
	amount, err := a.getFloat("Amount")
	if err != nil || amount <= 0 {
		printlnFn("Invalid amount")
		return err
	}
	w, err := a.wallet.Withdraw(ctx, amount)
	if err != nil {
		printlnFn(a.walletError(err))
		return err
	}
	printlnFn(fmt.Sprintf("Balance: %.2f", w.Balance))
	return nil
}

// PayOrder prompts for an order id and settles it from the wallet. A
// successful payment refreshes the pending-order badge.
func (a *App) PayOrder(ctx context.Context) error {
	orderID, err := a.getInt64("Order id")
	if err != nil {
		printlnFn("Invalid order id")
		return err
	}
	w, err := a.wallet.PayOrder(ctx, orderID)
	if err != nil {
		printlnFn(a.walletError(err))
		return err
	}
	printlnFn(fmt.Sprintf("Paid. Balance: %.2f", w.Balance))
	a.orders.Reset()
	return nil
}

// walletError prefers the sticky user-facing message over the raw error.
func (a *App) walletError(err error) string {
	if msg := a.wallet.LastError(); msg != "" {
		return msg
	}
	return err.Error()
}
