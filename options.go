package xhttp2

import "time"

// Logger is the ambient logging contract used throughout this module. It
// matches fasthttp.Logger's single method so callers already running a
// fasthttp server can pass its logger straight through.
type Logger interface {
	Printf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

const (
	// DefaultPingInterval is how often a Connection pings an otherwise
	// idle peer to detect a dead socket.
	DefaultPingInterval = 15 * time.Second

	// DefaultSettingsTimeout is the value DefaultOptions and normalize
	// give Options.SettingsTimeout.
	DefaultSettingsTimeout = 5 * time.Second
)

// Options configures a Connection. The zero value is not ready to use;
// call DefaultOptions and override fields as needed.
type Options struct {
	// Settings is the local parameter set advertised to the peer during
	// the handshake.
	Settings Settings

	// MaxIdleTime is stored with the options but Connection does not read
	// it: no idle timer runs, and an idle connection is not closed
	// whatever its value.
	MaxIdleTime time.Duration

	// PingInterval is how often to ping an idle connection. Zero uses
	// DefaultPingInterval; negative disables pinging entirely.
	PingInterval time.Duration

	// SettingsTimeout is the bound on waiting for a SETTINGS ACK. Zero
	// uses DefaultSettingsTimeout. Connection arms no timer from it: a
	// peer that never acknowledges this endpoint's SETTINGS is not timed
	// out and gets no SETTINGS_TIMEOUT GOAWAY.
	SettingsTimeout time.Duration

	// OnDisconnect, if set, is called once the connection's read loop has
	// exited, before the write queue and the Events() and Done() channels
	// are closed.
	OnDisconnect func(*Connection)

	// Logger receives diagnostic output. Defaults to a no-op logger.
	Logger Logger

	// Debug enables logging, through Logger, of each GOAWAY this endpoint
	// sends and of the error that ends the write loop.
	Debug bool
}

// DefaultOptions returns an Options populated with this module's
// defaults: RFC 7540 default Settings, a 15s ping interval, a
// SettingsTimeout of 5s, and a no-op Logger.
func DefaultOptions() Options {
	return Options{
		Settings:        DefaultSettings(),
		PingInterval:    DefaultPingInterval,
		SettingsTimeout: DefaultSettingsTimeout,
		Logger:          noopLogger{},
	}
}

func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}
	if o.PingInterval == 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.SettingsTimeout == 0 {
		o.SettingsTimeout = DefaultSettingsTimeout
	}
	if o.Settings.MaxFrameSize == 0 {
		o.Settings = DefaultSettings()
	}
}
