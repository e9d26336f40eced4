// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the durable key/value store, the remote API
// client, and an interactive REPL over the session, cart, wallet, and
// pending-orders stores. Typical flow: hydrate the previous session,
// load the durable cart, then execute user commands.
//
// Key features:
//   - Register / Login (member or admin) / Logout
//   - Cart: add, remove, change quantity, list, clear
//   - Cart reconciliation: pull the remote cart, push the local one
//   - Wallet: balance, deposit, withdraw, pay an order
//   - Pending-order badge refresh
//
// The REPL is started via App.Run(ctx), which blocks until the user
// exits. See App and runREPL for details.
package cli
