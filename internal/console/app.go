// Package console implements the restadmin command line admin console for
// the products and users collections.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/client"
	"github.com/vyrodovalexey/restadmin/internal/config"
	"github.com/vyrodovalexey/restadmin/internal/logging"
	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// Version is the console version.
const Version = "1.0.0"

// errCancelled is returned when the user aborts a prompt.
var errCancelled = errors.New("cancelled")

// Options configures the console. Zero values select the process defaults.
type Options struct {
	Out io.Writer
	Err io.Writer

	// Prompter collects missing input. Defaults to interactive forms.
	Prompter Prompter

	// Interactive reports whether prompts may be shown. Defaults to
	// checking whether stdin is a terminal.
	Interactive func() bool

	// Logger replaces the logger built from the configured level.
	Logger *zap.Logger
}

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	apiURL     string
	configFile string
	logLevel   string
	json       bool
}

// App holds the dependencies shared by all commands. The API client and the
// stores are created on first use so help and completion work without a
// valid configuration.
type App struct {
	out         io.Writer
	errOut      io.Writer
	prompter    Prompter
	interactive func() bool

	flags globalFlags

	cfg      *config.Config
	logger   *zap.Logger
	api      *client.Client
	products *store.ResourceStore[model.Product, model.ProductDraft]
	users    *store.PagedStore[model.User, model.UserDraft]
}

// NewApp creates an App from opts.
func NewApp(opts Options) *App {
	a := &App{
		out:         opts.Out,
		errOut:      opts.Err,
		prompter:    opts.Prompter,
		interactive: opts.Interactive,
		logger:      opts.Logger,
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.errOut == nil {
		a.errOut = os.Stderr
	}
	if a.prompter == nil {
		a.prompter = newFormPrompter()
	}
	if a.interactive == nil {
		a.interactive = stdinIsTerminal
	}
	return a
}

// Execute runs the console with args and returns the process exit code.
// Errors are printed to the error writer.
func Execute(ctx context.Context, args []string, opts Options) int {
	a := NewApp(opts)
	root := a.RootCommand()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errCancelled) {
			return 1
		}
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "restadmin",
		Short: "Admin console for the products and users REST API",
		Long: `restadmin lists, adds, edits and deletes products and users through the
admin REST API.

Configuration can be provided via flags, APP_* environment variables, or a
YAML configuration file passed with --config or APP_CONFIG_FILE.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "API base URL (default "+config.DefaultAPIBaseURL+")")
	pf.StringVar(&a.flags.configFile, "config", "", "Path to a YAML configuration file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&a.flags.json, "json", false, "Output results in JSON format")

	root.AddCommand(a.productsCommand(), a.usersCommand())
	return root
}

// connect loads the configuration and creates the client and stores. It is
// safe to call more than once.
func (a *App) connect(cmd *cobra.Command) error {
	if a.api != nil {
		return nil
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		if a.logger, err = logging.New(cfg.LogLevel, a.errOut, logging.Options{}); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
	}

	api, err := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}
	a.api = api

	if a.products, err = store.NewResourceStore[model.Product, model.ProductDraft](
		"products", api.Products(), a.logger,
	); err != nil {
		return err
	}
	if a.users, err = store.NewPagedStore[model.User, model.UserDraft](
		"users", api.Users(), cfg.PageSize, a.logger,
	); err != nil {
		return err
	}

	a.logger.Debug("console connected",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Int("page_size", cfg.PageSize),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)
	return nil
}

// loadConfig reads the configuration and applies flag overrides.
func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configFile != "" {
		cfg, err = config.LoadConsoleFile(a.flags.configFile)
	} else {
		cfg, err = config.LoadConsole()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL = a.flags.apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if err := cfg.ValidateConsole(); err != nil {
		return nil, fmt.Errorf("validating flags: %w", err)
	}

	return cfg, nil
}

// notify prints a success notice. With --json it goes to the error writer so
// stdout stays valid JSON.
func (a *App) notify(msg string) {
	w := a.out
	if a.flags.json {
		w = a.errOut
	}
	_, _ = fmt.Fprintln(w, msg)
}

// confirmDelete asks before deleting noun id unless yes is set. Without a
// terminal the deletion needs --yes.
func (a *App) confirmDelete(ctx context.Context, noun string, id int, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("refusing to delete %s %d without confirmation; pass --yes", noun, id)
	}

	ok, err := a.prompter.Confirm(ctx,
		fmt.Sprintf("Are you sure you want to delete %s %d?", noun, id),
		fmt.Sprintf(deleteWarning, noun),
	)
	if err != nil {
		return false, err
	}
	if !ok {
		a.notify("Deletion cancelled")
	}
	return ok, nil
}

// parseID parses a record ID argument.
func parseID(noun, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", noun, arg)
	}
	return id, nil
}

// anyChanged reports whether any of the named flags was set.
func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
