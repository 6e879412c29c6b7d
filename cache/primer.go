package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/errors"
)

// roundTripTimeout bounds how long a prime request waits for its reply.
const roundTripTimeout = 10 * time.Second

type primeRequest struct {
	urls  []string
	reply chan error
}

// Primer warms the artifact store in the background. Requests travel over
// a message channel to a single worker goroutine; callers wait for the
// reply with a fixed ten-second bound and treat timeouts as a skipped
// optimization, not a failure.
type Primer struct {
	store    *Store
	fetcher  wasmload.Fetcher
	requests chan primeRequest
	done     chan struct{}
}

// NewPrimer starts the primer worker.
func NewPrimer(store *Store, fetcher wasmload.Fetcher) *Primer {
	p := &Primer{
		store:    store,
		fetcher:  fetcher,
		requests: make(chan primeRequest),
		done:     make(chan struct{}),
	}
	go p.serve()
	return p
}

// Prime requests that the given URLs be cached, waiting at most ten
// seconds for the round trip. A timeout returns an error the caller is
// expected to log and ignore.
func (p *Primer) Prime(ctx context.Context, urls []string) error {
	req := primeRequest{urls: urls, reply: make(chan error, 1)}

	timer := time.NewTimer(roundTripTimeout)
	defer timer.Stop()

	select {
	case p.requests <- req:
	case <-timer.C:
		return errors.Timeout(errors.PhaseCache, "", "prime request not accepted")
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return errors.Closed(errors.PhaseCache, "primer")
	}

	select {
	case err := <-req.reply:
		return err
	case <-timer.C:
		return errors.Timeout(errors.PhaseCache, "", "prime round trip exceeded 10s")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker. Pending requests receive a closed error.
func (p *Primer) Close() {
	close(p.done)
}

func (p *Primer) serve() {
	for {
		select {
		case req := <-p.requests:
			req.reply <- p.prime(req.urls)
		case <-p.done:
			return
		}
	}
}

func (p *Primer) prime(urls []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), roundTripTimeout)
	defer cancel()

	var firstErr error
	for _, url := range urls {
		ok, err := p.store.Has(url)
		if err == nil && ok {
			continue
		}

		data, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			engine.Logger().Debug("cache prime fetch failed", zap.String("url", url), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := p.store.Put(url, data); err != nil {
			engine.Logger().Debug("cache prime store failed", zap.String("url", url), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
