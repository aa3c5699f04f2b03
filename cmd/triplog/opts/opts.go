package opts

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/walteh/triplog/pkg/auth"
	"github.com/walteh/triplog/pkg/config"
	"github.com/walteh/triplog/pkg/kv"
	"github.com/walteh/triplog/pkg/log"
	"github.com/walteh/triplog/pkg/notify"
	"github.com/walteh/triplog/pkg/trip"
	"github.com/walteh/triplog/pkg/tripapi"
	"gitlab.com/tozd/go/errors"
)

// ErrReported marks a failure that has already been shown to the user
var ErrReported = errors.Base("already reported")

// NotifyTitle is the title of blocking trip warnings
const NotifyTitle = "Trip"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config   *config.Config
	Storage  kv.Store
	API      *tripapi.HTTPClient
	Store    *trip.Store
	Ticker   *trip.Ticker
	Poller   *trip.Poller
	Notifier notify.Notifier
	Console  *log.Logger
	Clock    clockwork.Clock

	httpClient *http.Client
	detach     func()
}

// Options tweak how Build wires the application
type Options struct {
	// Ephemeral keeps session state in memory only
	Ephemeral bool
	// Console receives user-facing output
	Console io.Writer
	// Clock drives elapsed time and polling, real time if nil
	Clock clockwork.Clock
	// Notifier overrides the configured notifier
	Notifier notify.Notifier
}

// Build opens storage, restores the persisted session and wires the trip
// store to the backend described by cfg
func Build(ctx context.Context, cfg *config.Config, o Options) (*RootOpts, error) {
	logger := zerolog.Ctx(ctx)
	if o.Console == nil {
		o.Console = os.Stdout
	}

	driver, path := cfg.Storage.Driver, cfg.Storage.Path
	if o.Ephemeral {
		driver = "memory"
	}
	storage, err := kv.Open(ctx, driver, path)
	if err != nil {
		return nil, errors.Errorf("opening %s storage: %w", driver, err)
	}

	hc := &http.Client{Timeout: cfg.HTTPTimeout.Std()}
	apiOpts := []tripapi.Option{tripapi.WithHTTPClient(hc)}
	if cfg.API.LocationsURL != "" {
		u, err := url.Parse(cfg.API.LocationsURL)
		if err != nil {
			_ = storage.Close()
			return nil, errors.Errorf("parsing api.locations_url: %w", err)
		}
		apiOpts = append(apiOpts, tripapi.WithLocationsURL(u))
	}
	api, err := tripapi.NewHTTPClient(cfg.API.BaseURL, apiOpts...)
	if err != nil {
		_ = storage.Close()
		return nil, errors.Errorf("creating trip api client: %w", err)
	}

	clock := o.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	store := trip.NewStore(api, trip.WithClock(clock))
	detach := trip.NewPersister(storage).Attach(ctx, store)

	if err := trip.Bootstrap(ctx, store, storage); err != nil {
		detach()
		_ = storage.Close()
		return nil, errors.Errorf("restoring session: %w", err)
	}

	notifier := o.Notifier
	if notifier == nil {
		console := notify.Multi{notify.NewConsole(o.Console)}
		if cfg.Notify.Desktop {
			console = append(console, notify.NewDesktop())
		}
		notifier = console
	}

	logger.Debug().Str("driver", driver).Str("username", store.Username()).Msg("application wired")

	return &RootOpts{
		Config:     cfg,
		Storage:    storage,
		API:        api,
		Store:      store,
		Ticker:     trip.NewTicker(store),
		Poller:     trip.NewPoller(store, trip.WithInterval(cfg.PollInterval.Std())),
		Notifier:   notifier,
		Console:    log.NewWithZerolog(o.Console, *logger),
		Clock:      clock,
		httpClient: hc,
		detach:     detach,
	}, nil
}

// Auth creates the configured identity provider
func (o *RootOpts) Auth() (auth.Provider, error) {
	a := o.Config.Auth
	p, err := auth.New(a.Provider, auth.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		AuthURL:      a.AuthURL,
		TokenURL:     a.TokenURL,
		RedirectURL:  a.RedirectURL,
		Scopes:       a.Scopes,
		CallbackURL:  a.CallbackURL,
		UserInfoURL:  a.UserInfoURL,
		HTTPClient:   o.httpClient,
	}, o.Storage)
	if err != nil {
		return nil, errors.Errorf("creating auth provider: %w", err)
	}
	return p, nil
}

// Session renders the store's current session for the console
func (o *RootOpts) Session() log.SessionLine {
	return SessionLine(o.Store.Current(), o.Store.Username(), o.Store.Panel())
}

// SessionLine converts a session into its console form
func SessionLine(s trip.Session, username string, panel trip.Panel) log.SessionLine {
	line := log.SessionLine{
		Started:  s.Started,
		TripID:   s.TripID(),
		Username: username,
		Elapsed:  s.ElapsedTime,
		Panel:    panel.String(),
	}
	if s.StartTime != nil {
		line.StartTime = *s.StartTime
	}
	return line
}

// Report shows a failed action to the user. Conflicts become a blocking
// warning with the backend's explanation, anything else a console line
// saying the action did not take effect.
func (o *RootOpts) Report(ctx context.Context, action string, err error) error {
	if msg, ok := trip.UserMessage(err); ok {
		if nerr := o.Notifier.Warn(ctx, NotifyTitle, msg); nerr != nil {
			zerolog.Ctx(ctx).Warn().Err(nerr).Msg("notifying user")
		}
	} else {
		o.Console.Warningf("%s did not take effect: %s", action, err.Error())
	}
	return errors.Errorf("%w: %s: %s", ErrReported, action, err.Error())
}

// Close stops persistence and releases storage. Later calls do nothing.
func (o *RootOpts) Close() error {
	if o.detach != nil {
		o.detach()
		o.detach = nil
	}
	if o.Storage == nil {
		return nil
	}
	storage := o.Storage
	o.Storage = nil
	if err := storage.Close(); err != nil {
		return errors.Errorf("closing storage: %w", err)
	}
	return nil
}
