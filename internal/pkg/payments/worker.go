package payments

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/cache"
)

const (
	// CursorCacheKey remembers how many events previous passes consumed.
	// Losing it is harmless: the reduction is idempotent, a fresh pass over
	// the whole log converges to the same order collection.
	CursorCacheKey = "payments:reconcile:cursor"

	DefaultReconcileInterval = 30 * time.Second
)

// CursorStore persists the reconciliation read offset between passes.
type CursorStore interface {
	Get() (int, error)
	Set(offset int) error
}

// CacheCursorStore keeps the cursor in Redis under CursorCacheKey.
type CacheCursorStore struct{}

func (CacheCursorStore) Get() (int, error) {
	return cache.GetInt(CursorCacheKey)
}

func (CacheCursorStore) Set(offset int) error {
	return cache.Set(CursorCacheKey, offset, 0)
}

// Worker periodically reduces newly stored webhook events onto the order
// collection and writes changed orders back through the repository.
type Worker struct {
	store    EventStore
	orders   repository.OrderRepository
	cursor   CursorStore
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewWorker creates a reconciliation worker. A nil cursor store falls back to
// the Redis-backed one.
func NewWorker(store EventStore, orders repository.OrderRepository, cursor CursorStore, interval time.Duration) *Worker {
	if cursor == nil {
		cursor = CacheCursorStore{}
	}
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &Worker{
		store:    store,
		orders:   orders,
		cursor:   cursor,
		interval: interval,
	}
}

// Start launches the polling loop.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	log.Infof("[Reconciler] Starting, interval=%s", w.interval)

	w.wg.Add(1)
	go w.loop(w.stopCh)
}

// Stop stops the polling loop and waits for the current pass to finish. The
// worker can be started again afterwards.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
	w.wg.Wait()
	log.Info("[Reconciler] Stopped")
}

func (w *Worker) loop(stopCh <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run one pass immediately so restarts catch up without waiting a tick.
	w.runOnce()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

// runOnce performs a single reconciliation pass. Every failure is logged and
// swallowed: the next tick retries, and the idempotent reduction makes
// repeating work safe.
func (w *Worker) runOnce() {
	offset, err := w.cursor.Get()
	if err != nil {
		offset = 0
	}

	events, err := w.store.ReadSince(offset)
	if err != nil {
		log.Errorf("[Reconciler] Reading event store failed: %v", err)
		return
	}
	if len(events) == 0 {
		return
	}

	orders, err := w.orders.GetAll()
	if err != nil {
		log.Errorf("[Reconciler] Loading orders failed: %v", err)
		return
	}

	updated, changed := Reconcile(orders, events)

	changedSet := make(map[uint]struct{}, len(changed))
	for _, id := range changed {
		changedSet[id] = struct{}{}
	}
	wroteAll := true
	for i := range updated {
		if _, ok := changedSet[updated[i].ID]; !ok {
			continue
		}
		if err := w.orders.UpdatePaymentStatus(updated[i].ID, updated[i].PaymentStatus); err != nil {
			log.Errorf("[Reconciler] Updating order %d failed: %v", updated[i].ID, err)
			wroteAll = false
		}
	}

	// Only advance the cursor when every write landed; otherwise the next
	// pass replays the same events, which the reduction tolerates.
	if wroteAll {
		if err := w.cursor.Set(offset + len(events)); err != nil {
			log.Warnf("[Reconciler] Persisting cursor failed: %v", err)
		}
	}

	if len(changed) > 0 {
		log.Infof("[Reconciler] Applied %d events, %d orders updated", len(events), len(changed))
	}
}
