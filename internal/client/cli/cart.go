package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/smartbookcity/storefront/internal/client/models"
)

// getInt64 and getFloat prompt via getSimpleText and parse the reply.
func (a *App) getInt64(prompt string) (int64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func (a *App) getInt(prompt string) (int, error) {
	v, err := a.getInt64(prompt)
	return int(v), err
}

func (a *App) getFloat(prompt string) (float64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// CartAdd prompts for a book and quantity and adds it to the cart.
func (a *App) CartAdd(ctx context.Context) error {
	id, err := a.getInt64("Book id")
	if err != nil {
		printlnFn("Invalid book id")
		return err
	}
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	price, err := a.getFloat("Price")
	if err != nil {
		printlnFn("Invalid price")
		return err
	}
	qty, err := a.getInt("Quantity")
	if err != nil || qty <= 0 {
		printlnFn("Invalid quantity")
		return err
	}

	book := models.BookSummary{ID: id, Title: title, Price: price}
	if err := a.cart.AddItem(ctx, book, qty); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Added")
	return nil
}

// CartRemove prompts for a book id and removes its line.
func (a *App) CartRemove(ctx context.Context) error {
	id, err := a.getInt64("Book id")
	if err != nil {
		printlnFn("Invalid book id")
		return err
	}
	if err := a.cart.RemoveItem(ctx, id); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Removed")
	return nil
}

// CartQuantity prompts for a book id and a new quantity. A quantity of
// zero removes the line.
func (a *App) CartQuantity(ctx context.Context) error {
	id, err := a.getInt64("Book id")
	if err != nil {
		printlnFn("Invalid book id")
		return err
	}
	qty, err := a.getInt("Quantity")
	if err != nil || qty < 0 {
		printlnFn("Invalid quantity")
		return err
	}

	if qty == 0 {
		err = a.cart.RemoveItem(ctx, id)
	} else {
		err = a.cart.UpdateQuantity(ctx, id, qty)
	}
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Updated")
	return nil
}

// CartList prints the cart lines, totals, and the last reconciliation
// failure if one is pending.
func (a *App) CartList(ctx context.Context) error {
	items := a.cart.Snapshot()
	if len(items) == 0 {
		printlnFn("Cart is empty")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("%d  %s  x%d  %.2f", item.Book.ID, item.Book.Title, item.Quantity, item.Book.Price*float64(item.Quantity)))
	}
	printlnFn(fmt.Sprintf("Total: %d items, %.2f", a.cart.TotalItems(), a.cart.TotalPrice()))
	if msg := a.cart.LastError(); msg != "" {
		printlnFn(msg)
	}
	return nil
}

// CartClear empties the cart.
func (a *App) CartClear(ctx context.Context) error {
	if err := a.cart.Clear(ctx); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Cleared")
	return nil
}

// CartPull replaces the local cart with the remote one.
func (a *App) CartPull(ctx context.Context) error {
	if err := a.cart.FetchFromRemote(ctx); err != nil {
		printlnFn(a.cart.LastError())
		return err
	}
	return a.CartList(ctx)
}

// CartPush pushes the local cart to the server.
func (a *App) CartPush(ctx context.Context) error {
	if err := a.cart.SyncToServer(ctx); err != nil {
		printlnFn(a.cart.LastError())
		return err
	}
	printlnFn("Synced")
	return nil
}
