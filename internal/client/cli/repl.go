package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Reveal(ctx context.Context, args []string) error
	Copy(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	generateArgs(ctx context.Context, args []string) error
	exportArgs(ctx context.Context, args []string) error
	importArgs(ctx context.Context, args []string) error
	ResetKey(ctx context.Context, args []string) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
//	Not logged in: register, login, generate, reset-key, help, exit
//	Logged in:     (l)ist, show, reveal, copy, add, edit, delete,
//	               generate, export, import, logout, reset-key, help, exit
//
// Handler errors are ignored here; handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pv %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show <n>, reveal <n>, copy <n>, add, edit <n>, delete <n>, generate [len], export [file], import [file], logout, reset-key, exit")
			} else {
				printlnFn("Available commands: register, login, generate [len], reset-key, exit")
			}

		case "register":
			_ = a.Register(ctx, args)
		case "login":
			_ = a.Login(ctx, args)
		case "logout":
			_ = a.Logout(ctx, args)
		case "l", "list":
			_ = a.List(ctx, args)
		case "show":
			_ = a.Show(ctx, args)
		case "reveal":
			_ = a.Reveal(ctx, args)
		case "copy":
			_ = a.Copy(ctx, args)
		case "add":
			_ = a.Add(ctx, args)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete", "rm":
			_ = a.Delete(ctx, args)
		case "generate", "gen":
			_ = a.generateArgs(ctx, args)
		case "export":
			_ = a.exportArgs(ctx, args)
		case "import":
			_ = a.importArgs(ctx, args)
		case "reset-key":
			_ = a.ResetKey(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) status() string {
	if a.profile.LoggedIn() {
		return fmt.Sprintf("(%s)", a.profile.Email)
	}
	return "(logged out)"
}

// Root resumes a saved session if there is one and runs the REPL on
// a.reader until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to passvault (type 'help' for commands)")
	_ = a.resume(ctx)

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}
