// Package deadline turns deadline-flagged messages into stored deadlines,
// never storing the same (title, date) twice for a user.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mail-triage/internal/dateextract"
	"mail-triage/internal/logging"
	"mail-triage/internal/models"
	"mail-triage/internal/store"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Strategy selects how duplicates are detected
type Strategy string

const (
	// StrategyAtomic relies on the store's conditional insert: exactly once per (title, date).
	StrategyAtomic Strategy = "atomic"
	// StrategyQuery queries then inserts. Concurrent runs for one user may both insert.
	StrategyQuery Strategy = "query"
)

// Options configures a Pipeline
type Options struct {
	Strategy   Strategy
	CacheSize  int // zero or negative disables the known-deadline cache
	CacheTTL   time.Duration
	Registerer prometheus.Registerer
	Now        func() time.Time
}

// Result summarises one reconciliation pass
type Result struct {
	Scanned   int
	Flagged   int
	Misses    int
	DedupHits int
	Inserted  int
	Failed    int
}

type Pipeline struct {
	store    store.Store
	strategy Strategy
	known    *expirable.LRU[string, struct{}]
	metrics  *metrics
	now      func() time.Time
}

// NewPipeline creates a Pipeline writing deadlines to s
func NewPipeline(s store.Store, opts Options) (*Pipeline, error) {
	strategy := opts.Strategy
	switch strategy {
	case "":
		strategy = StrategyAtomic
	case StrategyAtomic, StrategyQuery:
	default:
		return nil, fmt.Errorf("unknown dedup strategy %q", strategy)
	}

	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register deadline metrics: %w", err)
	}

	p := &Pipeline{
		store:    s,
		strategy: strategy,
		metrics:  m,
		now:      opts.Now,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.CacheSize > 0 {
		p.known = expirable.NewLRU[string, struct{}](opts.CacheSize, nil, opts.CacheTTL)
	}
	return p, nil
}

// Reconcile considers every deadline-flagged message once, in order, and stores
// the deadlines the user does not have yet. A failure on one message is logged
// and the pass goes on; all failures are returned together. A canceled context
// stops the pass.
func (p *Pipeline) Reconcile(ctx context.Context, ownerID string, messages []models.Message) (Result, error) {
	locallog := logging.Log.WithFields(logrus.Fields{
		"trace_id": uuid.NewString(),
		"owner_id": ownerID,
	})

	var res Result
	var errs []error
	for _, msg := range messages {
		res.Scanned++
		if !msg.HasDeadline {
			continue
		}
		res.Flagged++

		if err := ctx.Err(); err != nil {
			return res, errors.Join(append(errs, err)...)
		}

		date, ok := dateextract.ExtractAt(dateextract.Normalize(msg.Subject, msg.Body), p.now())
		if !ok {
			res.Misses++
			p.metrics.misses.Inc()
			locallog.Debugf("No date found in %q", msg.Subject)
			continue
		}

		d := models.Deadline{
			Title:    msg.Subject,
			Date:     date,
			Category: msg.Category,
			Source:   models.SourceAuto,
		}

		inserted, err := p.add(ctx, ownerID, d)
		if err != nil {
			if ctx.Err() != nil {
				return res, errors.Join(append(errs, err)...)
			}
			res.Failed++
			p.metrics.failures.Inc()
			locallog.WithError(err).Errorf("Error storing deadline %q on %s", d.Title, d.Date)
			errs = append(errs, fmt.Errorf("deadline %q: %w", d.Title, err))
			continue
		}

		if inserted {
			res.Inserted++
			p.metrics.inserted.Inc()
			locallog.Infof("Deadline added: %q on %s", d.Title, d.Date)
		} else {
			res.DedupHits++
			p.metrics.dedupHits.Inc()
			locallog.Debugf("Deadline %q on %s already known", d.Title, d.Date)
		}
	}

	return res, errors.Join(errs...)
}

// add stores d unless the owner already has it and reports whether it wrote
func (p *Pipeline) add(ctx context.Context, ownerID string, d models.Deadline) (bool, error) {
	key := ownerID + "\x00" + d.DedupKey()
	if p.known != nil {
		if _, ok := p.known.Get(key); ok {
			return false, nil
		}
	}

	var inserted bool
	switch p.strategy {
	case StrategyQuery:
		existing, err := p.store.QueryDeadlines(ctx, ownerID, store.DeadlineFilter{Title: d.Title, Date: d.Date})
		if err != nil {
			return false, err
		}
		if len(existing) == 0 {
			if err := p.store.InsertDeadline(ctx, ownerID, d); err != nil {
				return false, err
			}
			inserted = true
		}
	default:
		var err error
		inserted, err = p.store.InsertDeadlineIfAbsent(ctx, ownerID, d)
		if err != nil {
			return false, err
		}
	}

	if p.known != nil {
		p.known.Add(key, struct{}{})
	}
	return inserted, nil
}
