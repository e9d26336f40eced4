package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt status: "(alice)" for a member,
// "(alice admin)" for an administrator, empty for a guest.
func (a *App) getStatus() string {
	user, ok := a.session.Current()
	if !ok {
		return ""
	}
	s := user.Username
	if a.session.IsAdmin() {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the storefront CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
