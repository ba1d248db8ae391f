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
	Unregister(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Groups(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Unsubscribe(ctx context.Context) error
	MyGroups(ctx context.Context) error
	UserList(ctx context.Context) error
	Post(ctx context.Context) error
	Retrieve(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the message-board client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the logged-in user (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - reg            — create an account
//	  - unreg          — remove an account
//	  - login          — start a session
//	  - groups         — list all groups
//	  - exit | quit    — leave the program
//
//	Logged in, additionally:
//	  - subscribe      — join a group (or create one)
//	  - unsubscribe    — leave a group
//	  - my_groups      — list subscribed groups
//	  - ulist          — list a group's subscribers
//	  - post           — post a message, optionally with a file
//	  - retrieve       — read messages starting from a given one
//	  - logout         — end the session
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gb %s> ", statusFn()))
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
				printlnFn("Available commands: groups, subscribe, unsubscribe, my_groups, ulist, post, retrieve, unreg, logout, exit")
			} else {
				printlnFn("Available commands: reg, unreg, login, groups, exit")
			}

		case "reg":
			_ = a.Register(ctx)

		case "unreg":
			_ = a.Unregister(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "groups":
			_ = a.Groups(ctx)

		case "subscribe":
			_ = a.Subscribe(ctx)

		case "unsubscribe":
			_ = a.Unsubscribe(ctx)

		case "my_groups":
			_ = a.MyGroups(ctx)

		case "ulist":
			_ = a.UserList(ctx)

		case "post":
			_ = a.Post(ctx)

		case "retrieve":
			_ = a.Retrieve(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
