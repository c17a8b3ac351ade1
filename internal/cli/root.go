// Package cli implements the wildguard command: the field and admin console
// for terminals. Credentials live in a bbolt state file so a login survives
// between invocations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/infrastructure/apiclient"
	"github.com/wildguard/console/internal/infrastructure/storage/bolt"
	"github.com/wildguard/console/internal/pkg/config"
	"github.com/wildguard/console/internal/pkg/validation"
	"github.com/wildguard/console/pkg/logger"
)

// stateScope is the bucket holding the CLI's credentials.
const stateScope = "cli"

type app struct {
	cfg *config.CLIConfig

	apiURL   string
	state    string
	logLevel string
	output   string

	in           io.Reader
	out          io.Writer
	errOut       io.Writer
	readPassword func() ([]byte, error)

	log      zerolog.Logger
	fixedLog bool
	pages    *service.Catalogue
	forms    *validation.Validator

	store  *bolt.Store
	handle *service.Handle
}

// Option configures the root command.
type Option func(*app)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}

// WithPasswordReader replaces the no-echo terminal prompt.
func WithPasswordReader(fn func() ([]byte, error)) Option {
	return func(a *app) { a.readPassword = fn }
}

// WithLogger skips logger initialisation from --log-level.
func WithLogger(log zerolog.Logger) Option {
	return func(a *app) {
		a.log = log
		a.fixedLog = true
	}
}

// NewRootCmd builds the wildguard command tree. cfg supplies flag defaults.
func NewRootCmd(cfg *config.CLIConfig, opts ...Option) *cobra.Command {
	a := &app{
		cfg:          cfg,
		in:           os.Stdin,
		out:          os.Stdout,
		errOut:       os.Stderr,
		readPassword: terminalPassword,
		pages:        service.DefaultCatalogue(),
		forms:        validation.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "wildguard",
		Short: "WildGuard wildlife monitoring console",
		Long: `wildguard talks to the WildGuard backend on behalf of an admin or a field
ranger. Log in once; the session is kept in a local state file until you log
out or the backend rejects it.`,
		SilenceUsage: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.APIURL, "backend API base URL")
	root.PersistentFlags().StringVar(&a.state, "state", cfg.StateFile, "path of the local state file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "output format: table or json")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.dashboardCmd(),
		a.monitoringCmd(),
		a.camerasCmd(),
		a.speciesCmd(),
		a.detectionsCmd(),
		a.verifyCmd(),
		a.alertsCmd(),
		a.reportsCmd(),
		a.contactsCmd(),
		a.emergencyCmd(),
		a.activityCmd(),
		a.evidenceCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	cfg, err := config.LoadCLI(context.Background(), envconfig.OsLookuper())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = NewRootCmd(cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func defaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "wildguard", "state.db"), nil
}

// open builds the session over the state file and restores any saved login.
func (a *app) open(ctx context.Context) error {
	if !a.fixedLog {
		a.log = logger.Init(logger.Options{
			Level:   a.logLevel,
			Pretty:  true,
			Output:  a.errOut,
			Service: "wildguard",
		})
	}

	path := a.state
	if path == "" {
		p, err := defaultStatePath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	store, err := bolt.Open(path)
	if err != nil {
		return err
	}

	factory := apiclient.Factory(a.apiURL, apiclient.WithLogger(a.log))
	h := service.NewHandle(store.Scope(stateScope), factory, a.log, service.WithSessionID(stateScope))
	if err := h.Session.Hydrate(ctx); err != nil {
		store.Close()
		return fmt.Errorf("restoring session: %w", err)
	}

	a.store = store
	a.handle = h
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close state file")
	}
	a.store, a.handle = nil, nil
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// action opens the session around fn and turns backend failures into
// messages a terminal user can act on.
func (a *app) action(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.open(ctx); err != nil {
			return err
		}
		defer a.close()
		return explain(fn(ctx, cmd, args))
	}
}

// guarded is action behind the route guard for role.
func (a *app) guarded(role domain.Role, fn runFunc) func(*cobra.Command, []string) error {
	return a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.authorize(role); err != nil {
			return err
		}
		return fn(ctx, cmd, args)
	})
}

// signedIn is action for commands open to either role.
func (a *app) signedIn(fn func(ctx context.Context, user domain.User, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		user, ok := a.handle.Session.Current()
		if !ok {
			return errNotLoggedIn
		}
		return fn(ctx, user, cmd, args)
	})
}

var (
	errNotLoggedIn    = errors.New("not logged in: run `wildguard login` first")
	errSessionExpired = errors.New("session expired: run `wildguard login` again")
)

func (a *app) authorize(role domain.Role) error {
	var user *domain.User
	if u, ok := a.handle.Session.Current(); ok {
		user = &u
	}
	d := service.Authorize(role, user)
	switch d.Outcome {
	case service.OutcomeRender:
		return nil
	case service.OutcomeRedirectLanding:
		return errNotLoggedIn
	default:
		return fmt.Errorf("this command needs the %s role; redirected to %s", role, d.Redirect)
	}
}

func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnauthorized):
		return errSessionExpired
	case errors.Is(err, domain.ErrBackendUnavailable) && !isAPIError(err):
		return errors.New(service.MsgBackendUnreachable)
	default:
		return err
	}
}

func isAPIError(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr)
}
