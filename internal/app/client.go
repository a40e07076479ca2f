package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-hrm/internal/apiclient"
	"go-hrm/internal/attendance"
	"go-hrm/internal/auth"
	"go-hrm/internal/config"
	"go-hrm/internal/notify"
	"go-hrm/internal/session"
	"go-hrm/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type clientOptions struct {
	notifier   notify.Notifier
	navigator  session.Navigator
	logger     *zap.Logger
	httpClient *http.Client
	storage    session.Storage
}

type ClientOption func(*clientOptions)

func WithNotifier(n notify.Notifier) ClientOption {
	return func(o *clientOptions) { o.notifier = n }
}

func WithNavigator(n session.Navigator) ClientOption {
	return func(o *clientOptions) { o.navigator = n }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithStorage bypasses HRM_STORAGE_DRIVER.
func WithStorage(s session.Storage) ClientOption {
	return func(o *clientOptions) { o.storage = s }
}

// Client is the wired client side: one API client, one session manager and
// one attendance tracker sharing it.
type Client struct {
	API        *apiclient.Client
	Session    *session.Manager
	Attendance *attendance.Tracker
	Records    attendance.Repository

	closers []func() error
}

func BuildClient(ctx context.Context, cfg config.Client, opts ...ClientOption) (*Client, error) {
	o := clientOptions{
		notifier:  notify.Nop(),
		navigator: session.NavigatorFunc(func() {}),
		logger:    zap.L(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Client{}

	storage := o.storage
	if storage == nil {
		storage, err = c.buildStorage(ctx, cfg, o.logger)
		if err != nil {
			return nil, err
		}
	}

	apiOpts := []apiclient.Option{apiclient.WithLogger(o.logger)}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, apiclient.WithHTTPClient(o.httpClient))
	}
	c.API = apiclient.New(cfg.BaseURL(), cfg.RequestTimeout, apiOpts...)

	c.Session = session.NewManager(storage, auth.NewRepository(c.API, o.logger),
		session.WithNotifier(o.notifier),
		session.WithNavigator(o.navigator),
		session.WithLogger(o.logger),
	)
	// late binding: the API client reads the token and reports 401s through
	// the manager, which itself talks through the API client
	c.API.Bind(c.Session)

	c.Records = attendance.NewRepository(c.API, o.logger)
	c.Attendance = attendance.NewTracker(c.Records,
		attendance.WithNotifier(o.notifier),
		attendance.WithLocation(loc),
		attendance.WithTickInterval(cfg.TickInterval),
		attendance.WithLogger(o.logger),
	)
	c.closers = append(c.closers, func() error {
		c.Attendance.Close()
		return nil
	})

	return c, nil
}

func (c *Client) buildStorage(ctx context.Context, cfg config.Client, logger *zap.Logger) (session.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, 3, logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rdb.Close)
		return session.NewRedisStorage(rdb, cfg.StoragePrefix), nil
	case config.StorageFile, "":
		return session.NewFileStorage(cfg.StorageDir, cfg.StoragePrefix), nil
	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.StorageDriver)
	}
}

// Start restores the persisted session. It must run before any protected
// operation.
func (c *Client) Start(ctx context.Context) error {
	return c.Session.Restore(ctx)
}

func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
