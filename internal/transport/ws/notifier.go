package ws

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewFollower(accountID uuid.UUID, follower domain.AccountSummary) {
	evt, err := NewEvent(EventTypeFollowerNew, FollowerPayload{Follower: follower})
	if err != nil {
		slog.Warn("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.SendToAccount(accountID, evt)
}

func (n *HubNotifier) NotifyFollowerRemoved(accountID, followerID uuid.UUID) {
	evt, err := NewEvent(EventTypeFollowerRemoved, FollowerRemovedPayload{FollowerID: followerID})
	if err != nil {
		slog.Warn("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.SendToAccount(accountID, evt)
}

func (n *HubNotifier) NotifyVerified(accountID uuid.UUID) {
	evt, err := NewEvent(EventTypeAccountVerified, VerifiedPayload{AccountID: accountID})
	if err != nil {
		slog.Warn("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.SendToAccount(accountID, evt)
}
