package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type outboxState int

const (
	outboxPending outboxState = iota
	outboxSent
	outboxFailed
)

// outboxEntry хранит сообщение и служебные поля доставки.
type outboxEntry struct {
	msg       domain.OutboxMessage
	state     outboxState
	attempts  int
	createdAt time.Time
	updatedAt time.Time
}

// outboxQueue - in-memory outbox. Слайс сохраняет порядок постановки,
// индекс по ID нужен для MarkSent/MarkFailed.
type outboxQueue struct {
	mu      sync.RWMutex
	entries []*outboxEntry
	byID    map[string]*outboxEntry
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository() domain.OutboxRepository {
	return &outboxQueue{byID: make(map[string]*outboxEntry)}
}

var _ domain.OutboxRepository = (*outboxQueue)(nil)

// Enqueue ставит сообщение в очередь со статусом pending.
func (q *outboxQueue) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry := &outboxEntry{msg: msg, createdAt: now, updatedAt: now}
	q.entries = append(q.entries, entry)
	q.byID[msg.ID] = entry
	return msg, nil
}

// PullPending возвращает до limit pending-сообщений в порядке постановки.
func (q *outboxQueue) PullPending(limit int) ([]domain.OutboxMessage, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	batch := make([]domain.OutboxMessage, 0, limit)
	for _, entry := range q.entries {
		if entry.state != outboxPending {
			continue
		}
		batch = append(batch, entry.msg)
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

// Stats возвращает размер backlog и время самого старого pending-сообщения.
func (q *outboxQueue) Stats() (domain.OutboxStats, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var stats domain.OutboxStats
	for _, entry := range q.entries {
		if entry.state != outboxPending {
			continue
		}
		if stats.PendingCount == 0 {
			stats.OldestPendingAt = entry.createdAt
		}
		stats.PendingCount++
	}
	return stats, nil
}

// MarkSent помечает сообщение доставленным.
func (q *outboxQueue) MarkSent(id string) error {
	return q.transition(id, outboxSent)
}

// MarkFailed помечает сообщение недоставленным, исключая его из выборки.
func (q *outboxQueue) MarkFailed(id string) error {
	return q.transition(id, outboxFailed)
}

func (q *outboxQueue) transition(id string, state outboxState) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.byID[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	entry.state = state
	entry.attempts++
	entry.updatedAt = time.Now().UTC()
	return nil
}
