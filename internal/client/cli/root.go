package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/generator"
	"github.com/dmitrijs2005/passvault/internal/flagx"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	config  string
	server  string
	profile string
	verbose bool
}

// NewRootCommand builds the passvault command tree. Without a subcommand it
// starts the interactive shell.
func NewRootCommand(ctx context.Context) *cobra.Command {
	var (
		flags rootFlags
		app   *App
	)

	root := &cobra.Command{
		Use:           "passvault",
		Short:         "passvault - a zero-knowledge password vault",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := flags.config
			if !cmd.Flags().Changed("config") {
				path = flagx.ConfigPath()
			}

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = flags.server
			}
			if cmd.Flags().Changed("profile") {
				cfg.ProfilePath = flags.profile
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = flags.verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := logging.NewText(os.Stderr, level)
			logger.Debug(ctx, "configuration loaded", "server", cfg.ServerURL, "profile", cfg.ProfilePath)

			app, err = NewApp(ctx, cfg, logger)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Root(ctx)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Config file path [env: PASSVAULT_CONFIG]")
	pf.StringVarP(&flags.server, "server", "a", "", "Server URL [env: PASSVAULT_SERVER_URL]")
	pf.StringVarP(&flags.profile, "profile", "p", "", "Profile database path [env: PASSVAULT_PROFILE_PATH]")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	getApp := func() *App { return app }
	addCommands(ctx, root, getApp)
	return root
}

// withSession wraps a handler that needs a logged-in profile: the saved
// session is resumed first.
func withSession(ctx context.Context, getApp func() *App, fn func(*App, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := getApp()
		if err := a.resume(ctx); err != nil {
			return err
		}
		return fn(a, args)
	}
}

func addCommands(ctx context.Context, root *cobra.Command, getApp func() *App) {
	plain := func(fn func(*App, context.Context, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return fn(getApp(), ctx, args)
		}
	}
	authed := func(fn func(*App, context.Context, []string) error) func(*cobra.Command, []string) error {
		return withSession(ctx, getApp, func(a *App, args []string) error { return fn(a, ctx, args) })
	}

	root.AddCommand(
		&cobra.Command{Use: "register", Short: "Create an account", Args: cobra.NoArgs, RunE: plain((*App).Register)},
		&cobra.Command{Use: "login", Short: "Log in and save the session", Args: cobra.NoArgs, RunE: plain((*App).Login)},
		&cobra.Command{Use: "logout", Short: "Forget the saved session", Args: cobra.NoArgs, RunE: authed((*App).Logout)},
		&cobra.Command{Use: "list", Aliases: []string{"ls"}, Short: "List vault entries", Args: cobra.NoArgs, RunE: authed((*App).List)},
		&cobra.Command{Use: "show <n|id>", Short: "Show an entry with the password masked", Args: cobra.ExactArgs(1), RunE: authed((*App).Show)},
		&cobra.Command{Use: "reveal <n|id>", Short: "Show an entry including the password", Args: cobra.ExactArgs(1), RunE: authed((*App).Reveal)},
		&cobra.Command{Use: "add", Short: "Add an entry", Args: cobra.NoArgs, RunE: authed((*App).Add)},
		&cobra.Command{Use: "edit <n|id>", Short: "Edit an entry", Args: cobra.ExactArgs(1), RunE: authed((*App).Edit)},
		&cobra.Command{Use: "delete <n|id>", Aliases: []string{"rm"}, Short: "Delete an entry", Args: cobra.ExactArgs(1), RunE: authed((*App).Delete)},
		&cobra.Command{Use: "reset-key", Short: "Delete the local encryption key", Args: cobra.NoArgs, RunE: plain((*App).ResetKey)},
		newCopyCommand(ctx, getApp),
		newGenerateCommand(ctx, getApp),
		newExportCommand(ctx, getApp),
		newImportCommand(ctx, getApp),
	)
}

// newCopyCommand copies a password and waits for the clipboard to be
// cleared before the process exits.
func newCopyCommand(ctx context.Context, getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <n|id>",
		Short: "Copy an entry's password to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(ctx, getApp, func(a *App, args []string) error {
			if err := a.Copy(ctx, args); err != nil {
				return err
			}
			a.waitClipboard(ctx)
			return nil
		}),
	}
}

func newGenerateCommand(ctx context.Context, getApp func() *App) *cobra.Command {
	opts := generator.DefaultOptions()
	var noSymbols, noDigits bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := opts
			o.Symbols = !noSymbols
			o.Digits = !noDigits
			a := getApp()
			if err := a.Generate(ctx, o); err != nil {
				return err
			}
			a.waitClipboard(ctx)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Length, "length", "l", opts.Length, "Password length")
	cmd.Flags().BoolVar(&opts.ExcludeLookAlike, "no-lookalike", false, "Exclude look-alike characters (il1Lo0O)")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "Exclude symbols")
	cmd.Flags().BoolVar(&noDigits, "no-digits", false, "Exclude digits")
	return cmd
}

func newExportCommand(ctx context.Context, getApp func() *App) *cobra.Command {
	var upload bool
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the vault to an encrypted backup file",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(ctx, getApp, func(a *App, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return a.Export(ctx, path, upload)
		}),
	}
	cmd.Flags().BoolVar(&upload, "upload", false, "Also upload the backup to server storage")
	return cmd
}

func newImportCommand(ctx context.Context, getApp func() *App) *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Merge an encrypted backup into the vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(ctx, getApp, func(a *App, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return a.Import(ctx, path, remote)
		}),
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Download the backup with this key from server storage")
	return cmd
}
