package erpclient

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mietwerk/mietwerk-go/respcache"
)

type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
	Cache   respcache.Store
	Policy  respcache.TTLPolicy
	Rules   []InvalidationRule
	Logger  zerolog.Logger
	Token   string
}

type ClientOption func(*ClientOptions)

func defaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout: 10 * time.Second,
		Headers: map[string]string{"Content-Type": "application/json"},
		Policy:  DefaultPolicy,
		Rules:   DefaultInvalidationRules,
		Logger:  zerolog.Nop(),
	}
}

func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) {
		if url != "" {
			o.BaseURL = url
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(o *ClientOptions) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) {
		if len(headers) == 0 {
			return
		}
		o.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// WithCache attaches a response cache; without one every GET goes to the
// network.
func WithCache(store respcache.Store) ClientOption {
	return func(o *ClientOptions) {
		o.Cache = store
	}
}

// WithPolicy replaces the TTL policy controlling which paths are cached and
// for how long.
func WithPolicy(policy respcache.TTLPolicy) ClientOption {
	return func(o *ClientOptions) {
		o.Policy = policy
	}
}

// WithInvalidationRules replaces the mutation-to-read invalidation table.
func WithInvalidationRules(rules ...InvalidationRule) ClientOption {
	return func(o *ClientOptions) {
		o.Rules = append([]InvalidationRule(nil), rules...)
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}

// WithToken sets the initial bearer credential; SetToken can replace it at
// runtime after a login or refresh.
func WithToken(token string) ClientOption {
	return func(o *ClientOptions) {
		o.Token = token
	}
}
