package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultBufferSize = 32

type CloseReason int

const (
	// ClosedByClient is the reason for subscriptions ended by Unsubscribe.
	ClosedByClient CloseReason = iota
	ClosedRevoked
	ClosedShutdown
)

type Subscription struct {
	companyID string
	uid       string
	admin     bool
	events    chan Event
	reason    CloseReason
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Reason is valid once Events is closed.
func (s *Subscription) Reason() CloseReason {
	return s.reason
}

// Hub fans events out to the subscribers of a company. Non-admins only see
// events addressed to them or to the whole company.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]map[*Subscription]struct{}
	bufferSize int
	logger     *zap.Logger
}

func NewHub(bufferSize int, logger ...*zap.Logger) *Hub {
	l := zap.L().Named("realtime.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.hub")
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subs:       make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
		logger:     l,
	}
}

func (h *Hub) Subscribe(companyID, uid string, admin bool) *Subscription {
	sub := &Subscription{
		companyID: companyID,
		uid:       uid,
		admin:     admin,
		events:    make(chan Event, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[companyID] == nil {
		h.subs[companyID] = make(map[*Subscription]struct{})
	}
	h.subs[companyID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.companyID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	sub.reason = ClosedByClient
	close(sub.events)
	if len(set) == 0 {
		delete(h.subs, sub.companyID)
	}
}

// Close ends every subscription. Feed connections are hijacked from the HTTP
// server, so shutdown reaches them only through here.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for companyID, set := range h.subs {
		for sub := range set {
			sub.reason = ClosedShutdown
			close(sub.events)
		}
		delete(h.subs, companyID)
	}
	h.logger.Info("feed hub closed")
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
// A removed member loses their subscriptions, and a deleted company loses all
// of them, once the event itself has been queued.
func (h *Hub) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	h.mu.RLock()
	for sub := range h.subs[event.CompanyID] {
		if !sub.admin && event.UID != "" && event.UID != sub.uid {
			continue
		}
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("feed subscriber lagging, event dropped",
				zap.String("company_id", event.CompanyID),
				zap.String("uid", sub.uid),
				zap.String("type", event.Type),
			)
		}
	}
	h.mu.RUnlock()

	switch event.Type {
	case EventMemberRemoved:
		if event.UID != "" {
			h.revoke(event.CompanyID, func(sub *Subscription) bool { return sub.uid == event.UID })
		}
	case EventCompanyDeleted:
		h.revoke(event.CompanyID, func(*Subscription) bool { return true })
	}
}

// revoke closes the matching subscriptions of a company.
func (h *Hub) revoke(companyID string, match func(*Subscription) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[companyID]
	for sub := range set {
		if !match(sub) {
			continue
		}
		delete(set, sub)
		sub.reason = ClosedRevoked
		close(sub.events)
		h.logger.Info("feed subscription revoked",
			zap.String("company_id", companyID),
			zap.String("uid", sub.uid),
		)
	}
	if len(set) == 0 {
		delete(h.subs, companyID)
	}
}

func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[companyID])
}
