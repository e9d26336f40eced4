package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginAdmin(ctx context.Context) error
	Logout(ctx context.Context) error
	CartAdd(ctx context.Context) error
	CartRemove(ctx context.Context) error
	CartQuantity(ctx context.Context) error
	CartList(ctx context.Context) error
	CartClear(ctx context.Context) error
	CartPull(ctx context.Context) error
	CartPush(ctx context.Context) error
	WalletShow(ctx context.Context) error
	Deposit(ctx context.Context) error
	Withdraw(ctx context.Context) error
	PayOrder(ctx context.Context) error
	Orders(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the storefront CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate as a member
//	  - admin          — authenticate as an administrator
//	  - add | remove | qty | (l)ist | clear — guest cart operations
//	  - exit | quit    — leave the program
//
//	Logged in additionally:
//	  - pull           — replace the local cart with the remote one
//	  - push           — push the local cart to the server
//	  - wallet         — show the wallet balance
//	  - deposit        — add funds
//	  - withdraw       — remove funds
//	  - pay            — pay an order from the wallet
//	  - orders         — refresh and show the pending-order count
//	  - logout         — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, remove, qty, (l)ist, clear, pull, push, wallet, deposit, withdraw, pay, orders, logout, exit")
			} else {
				printlnFn("Available commands: register, login, admin, add, remove, qty, (l)ist, clear, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "admin":
			_ = a.LoginAdmin(ctx)

		case "add":
			_ = a.CartAdd(ctx)

		case "remove":
			_ = a.CartRemove(ctx)

		case "qty":
			_ = a.CartQuantity(ctx)

		case "l", "list", "cart":
			_ = a.CartList(ctx)

		case "clear":
			_ = a.CartClear(ctx)

		case "pull":
			_ = a.CartPull(ctx)

		case "push":
			_ = a.CartPush(ctx)

		case "wallet":
			_ = a.WalletShow(ctx)

		case "deposit":
			_ = a.Deposit(ctx)

		case "withdraw":
			_ = a.Withdraw(ctx)

		case "pay":
			_ = a.PayOrder(ctx)

		case "orders":
			_ = a.Orders(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
