package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

const createActionsTable = `
	CREATE TABLE IF NOT EXISTS ui_actions (
		ts         DateTime64(3),
		session_id String,
		team_id    String,
		action     LowCardinality(String),
		target_id  String
	) ENGINE = MergeTree
	ORDER BY (action, ts)
	TTL toDateTime(ts) + INTERVAL 90 DAY
`

// ClickHouseRecorder batches actions into the ui_actions table from a
// background goroutine.
type ClickHouseRecorder struct {
	conn    driver.Conn
	queue   chan Action
	flushAt int
	every   time.Duration
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// ClickHouseOptions configures the connection
type ClickHouseOptions struct {
	Addr     string
	Database string
	Username string
	Password string
}

// NewClickHouseRecorder connects, creates the table if missing and starts
// the writer.
func NewClickHouseRecorder(opts ClickHouseOptions) (*ClickHouseRecorder, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, createActionsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create ui_actions table: %w", err)
	}

	r := &ClickHouseRecorder{
		conn:    conn,
		queue:   make(chan Action, 1024),
		flushAt: 200,
		every:   5 * time.Second,
		done:    make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Record queues an action. When the queue is full the action is dropped.
func (r *ClickHouseRecorder) Record(_ context.Context, a Action) {
	if a.At.IsZero() {
		a.At = time.Now()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- a:
	default:
		logger.Warn("Analytics queue full, dropping action", "action", a.Kind)
	}
}

// Ping checks the ClickHouse connection
func (r *ClickHouseRecorder) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx)
}

func (r *ClickHouseRecorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	batch := make([]Action, 0, r.flushAt)
	for {
		select {
		case a, ok := <-r.queue:
			if !ok {
				r.flush(batch)
				return
			}
			batch = append(batch, a)
			if len(batch) >= r.flushAt {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (r *ClickHouseRecorder) flush(batch []Action) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := r.conn.PrepareBatch(ctx, "INSERT INTO ui_actions")
	if err != nil {
		logger.Error("Failed to prepare analytics batch", "error", err)
		return
	}
	for _, a := range batch {
		if err := b.Append(a.At, a.SessionID, a.TeamID, a.Kind, a.TargetID); err != nil {
			logger.Error("Failed to append analytics row", "error", err, "action", a.Kind)
			_ = b.Abort()
			return
		}
	}
	if err := b.Send(); err != nil {
		logger.Error("Failed to send analytics batch", "error", err, "rows", len(batch))
		return
	}
	logger.Debug("Analytics batch written", "rows", len(batch))
}

// Close drains the queue and closes the connection
func (r *ClickHouseRecorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	return r.conn.Close()
}
