package services

import (
	"context"
	"fmt"

	"vpcs-backend/internal/core/domain"
)

// topicModules maps each change topic to the module that may watch it.
// sessions is open to every signed-in user, who only sees their own events.
var topicModules = map[string]domain.Module{
	domain.TopicCashflow:      domain.ModuleCashflow,
	domain.TopicParties:       domain.ModuleParties,
	domain.TopicMaterials:     domain.ModuleMaterials,
	domain.TopicBaseCompanies: domain.ModuleBaseCompanyManagement,
	domain.TopicTankers:       domain.ModuleTankerManagement,
	domain.TopicTransactions:  domain.ModuleTransactions,
	domain.TopicUsers:         domain.ModuleUserManagement,
}

// ChangeFeedService hands out change subscriptions limited to what a role may see
type ChangeFeedService struct {
	subscriber Subscriber
	access     *domain.AccessTable
}

// NewChangeFeedService creates a new change feed service
func NewChangeFeedService(subscriber Subscriber, access *domain.AccessTable) *ChangeFeedService {
	return &ChangeFeedService{subscriber: subscriber, access: access}
}

// AllowedTopics returns the requested topics the role may watch. No request
// means every topic the role may watch.
func (s *ChangeFeedService) AllowedTopics(role domain.Role, requested []string) ([]string, error) {
	if len(requested) == 0 {
		requested = []string{
			domain.TopicCashflow, domain.TopicParties, domain.TopicMaterials, domain.TopicBaseCompanies,
			domain.TopicTankers, domain.TopicTransactions, domain.TopicUsers, domain.TopicSessions,
		}
	}

	out := make([]string, 0, len(requested))
	for _, t := range requested {
		if t == domain.TopicSessions {
			out = append(out, t)
			continue
		}
		mod, ok := topicModules[t]
		if !ok {
			return nil, domain.NewValidationError("topics", fmt.Sprintf("unknown topic %q", t))
		}
		if s.access.HasModuleAccess(role, mod) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrForbidden
	}
	return out, nil
}

// Subscribe opens a subscription for the actor's role. Session events are
// delivered only when they are about the actor's own account.
func (s *ChangeFeedService) Subscribe(ctx context.Context, actor domain.Actor, requested ...string) (<-chan domain.ChangeEvent, func(), []string, error) {
	if s.subscriber == nil {
		return nil, nil, nil, fmt.Errorf("%w: change feed", domain.ErrNotConfigured)
	}
	topics, err := s.AllowedTopics(actor.Role, requested)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, stop := context.WithCancel(ctx)
	events, cancel, err := s.subscriber.Subscribe(ctx, topics...)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}

	out := make(chan domain.ChangeEvent)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Topic == domain.TopicSessions && (actor.UserID == 0 || ev.ID != actor.UserID) {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { stop(); cancel() }, topics, nil
}

// EndsSession reports whether ev closes the subscriber's own session
func EndsSession(ev domain.ChangeEvent) bool {
	return ev.Topic == domain.TopicSessions && ev.Action == domain.ActionRevoked
}
