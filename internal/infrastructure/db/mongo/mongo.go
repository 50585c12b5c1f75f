package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout = 10 * time.Second
	// opTimeout bounds every single repository call.
	opTimeout = 5 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// DatabaseProvider hands out the shared database handle.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// Lazy opens the MongoDB connection on first use and shares it for the life
// of the process. Concurrent first callers wait on a single in-flight dial;
// a failed dial is not cached, so a later call tries again.
type Lazy struct {
	cfg       Config
	onConnect func(ctx context.Context, db *mongo.Database) error
	dial      func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error)

	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// NewLazy returns a Lazy handle. onConnect, when non-nil, runs once right
// after the first successful dial (index creation); if it fails the
// connection is dropped and the next call starts over.
func NewLazy(cfg Config, onConnect func(ctx context.Context, db *mongo.Database) error) *Lazy {
	return &Lazy{cfg: cfg, onConnect: onConnect, dial: Connect}
}

// Database returns the connected database, dialing if needed.
func (l *Lazy) Database(ctx context.Context) (*mongo.Database, error) {
	if db := l.current(); db != nil {
		return db, nil
	}

	v, err, _ := l.group.Do("connect", func() (interface{}, error) {
		if db := l.current(); db != nil {
			return db, nil
		}

		// The dial outlives the caller that triggered it: other requests may
		// be waiting on the same result.
		dialCtx := context.WithoutCancel(ctx)
		client, db, err := l.dial(dialCtx, l.cfg)
		if err != nil {
			return nil, err
		}
		if l.onConnect != nil {
			if err := l.onConnect(dialCtx, db); err != nil {
				_ = client.Disconnect(dialCtx)
				return nil, fmt.Errorf("mongo init: %w", err)
			}
		}

		l.mu.Lock()
		l.client, l.db = client, db
		l.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Database), nil
}

// Connected reports whether a connection has been established.
func (l *Lazy) Connected() bool {
	return l.current() != nil
}

// Close disconnects the client if one was opened.
func (l *Lazy) Close(ctx context.Context) error {
	l.mu.Lock()
	client := l.client
	l.client, l.db = nil, nil
	l.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (l *Lazy) current() *mongo.Database {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db
}
