package mongo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// offlineClient builds a client without contacting a server: the driver only
// dials when an operation runs.
func offlineClient(cfg Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}

func newTestLazy(t *testing.T, dial func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error)) *Lazy {
	t.Helper()
	l := NewLazy(Config{URI: "mongodb://127.0.0.1:1", Database: "sigcpef_test"}, nil)
	l.dial = dial
	t.Cleanup(func() { _ = l.Close(context.Background()) })
	return l
}

func TestLazy_ConcurrentFirstCallersShareOneDial(t *testing.T) {
	var dials atomic.Int32
	release := make(chan struct{})

	l := newTestLazy(t, func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
		dials.Add(1)
		<-release
		return offlineClient(cfg)
	})

	const callers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		handles = make(map[*mongo.Database]struct{})
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := l.Database(context.Background())
			if err != nil {
				t.Errorf("Database: %v", err)
				return
			}
			mu.Lock()
			handles[db] = struct{}{}
			mu.Unlock()
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := dials.Load(); got != 1 {
		t.Fatalf("expected exactly 1 dial, got %d", got)
	}
	if len(handles) != 1 {
		t.Fatalf("expected one shared handle, got %d", len(handles))
	}
	if !l.Connected() {
		t.Fatalf("expected Connected after a successful dial")
	}
}

func TestLazy_FailedDialIsRetried(t *testing.T) {
	var dials atomic.Int32
	l := newTestLazy(t, func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
		if dials.Add(1) == 1 {
			return nil, nil, errors.New("mongo ping: server selection timeout")
		}
		return offlineClient(cfg)
	})

	if _, err := l.Database(context.Background()); err == nil {
		t.Fatalf("expected the first dial to fail")
	}
	if l.Connected() {
		t.Fatalf("a failed dial must not be cached")
	}

	db, err := l.Database(context.Background())
	if err != nil || db == nil {
		t.Fatalf("expected the retry to connect, got %v", err)
	}
	if _, err := l.Database(context.Background()); err != nil {
		t.Fatalf("cached handle: %v", err)
	}
	if got := dials.Load(); got != 2 {
		t.Fatalf("expected 2 dials, got %d", got)
	}
}

func TestLazy_FailedInitDropsConnection(t *testing.T) {
	var dials, inits atomic.Int32
	l := newTestLazy(t, func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
		dials.Add(1)
		return offlineClient(cfg)
	})
	l.onConnect = func(ctx context.Context, db *mongo.Database) error {
		if inits.Add(1) == 1 {
			return errors.New("create indexes: timeout")
		}
		return nil
	}

	if _, err := l.Database(context.Background()); err == nil {
		t.Fatalf("expected init failure")
	}
	if _, err := l.Database(context.Background()); err != nil {
		t.Fatalf("expected second attempt to succeed, got %v", err)
	}
	if dials.Load() != 2 || inits.Load() != 2 {
		t.Fatalf("expected redial and re-init, got dials=%d inits=%d", dials.Load(), inits.Load())
	}
}

func TestLazy_CloseResetsHandle(t *testing.T) {
	var dials atomic.Int32
	l := newTestLazy(t, func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
		dials.Add(1)
		return offlineClient(cfg)
	})

	if err := l.Close(context.Background()); err != nil {
		t.Fatalf("Close before connect: %v", err)
	}

	if _, err := l.Database(context.Background()); err != nil {
		t.Fatalf("Database: %v", err)
	}
	if err := l.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.Connected() {
		t.Fatalf("Close must reset the handle")
	}

	if _, err := l.Database(context.Background()); err != nil {
		t.Fatalf("Database after Close: %v", err)
	}
	if got := dials.Load(); got != 2 {
		t.Fatalf("expected a fresh dial after Close, got %d dials", got)
	}
}
