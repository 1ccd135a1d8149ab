package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteMe(ctx context.Context) error

	Members(ctx context.Context) error
	Toggle(ctx context.Context, name string) error
	MarkAll(ctx context.Context, paid bool) error
	RemoveMember(ctx context.Context, name string) error

	Vault(ctx context.Context) error
	SetVault(ctx context.Context, amount string) error
	ClearVault(ctx context.Context) error

	Upload(ctx context.Context, path string) error
	Images(ctx context.Context) error
	DeleteImage(ctx context.Context, key string) error

	Dates(ctx context.Context) error
	Countdown(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: login, register, admin, countdown, exit"
	helpMember = "Available commands: members, vault, upload <file>, images, dates, countdown, delete-me, logout, exit"
	helpAdmin  = "Available commands: members, toggle <name>, markall paid|pending, remove <name>, " +
		"vault [set <amount>|clear], upload <file>, images, delete-image <key>, countdown, logout, exit"
)

// runREPL starts the read–eval–print loop of the Vignaraja CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. Commands that need an argument
// print their usage when it is missing. Errors returned by handlers are
// printed and the loop continues. The loop exits on scanner EOF or when the
// user types "exit" or "quit". Command handlers prompt through the same
// reader, so no input is buffered twice.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err)
		}
	}

	for {
		printlnFn(fmt.Sprintf("vg %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpMember)
			default:
				printlnFn(helpGuest)
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "admin":
			report(a.AdminLogin(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "delete-me":
			report(a.DeleteMe(ctx))

		case "members", "m":
			report(a.Members(ctx))

		case "toggle":
			if len(args) == 0 {
				printlnFn("Usage: toggle <name>")
				continue
			}
			report(a.Toggle(ctx, args[0]))

		case "markall":
			if len(args) == 0 || (args[0] != "paid" && args[0] != "pending") {
				printlnFn("Usage: markall paid|pending")
				continue
			}
			report(a.MarkAll(ctx, args[0] == "paid"))

		case "remove":
			if len(args) == 0 {
				printlnFn("Usage: remove <name>")
				continue
			}
			report(a.RemoveMember(ctx, args[0]))

		case "vault":
			switch {
			case len(args) == 0:
				report(a.Vault(ctx))
			case args[0] == "set" && len(args) == 2:
				report(a.SetVault(ctx, args[1]))
			case args[0] == "clear":
				report(a.ClearVault(ctx))
			default:
				printlnFn("Usage: vault [set <amount>|clear]")
			}

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <file>")
				continue
			}
			report(a.Upload(ctx, strings.Join(args, " ")))

		case "images":
			report(a.Images(ctx))

		case "delete-image":
			if len(args) == 0 {
				printlnFn("Usage: delete-image <key>")
				continue
			}
			report(a.DeleteImage(ctx, args[0]))

		case "dates":
			report(a.Dates(ctx))

		case "countdown":
			report(a.Countdown(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
