package outreach

import "strings"

type pendingKey struct {
	client string
	typ    Type
}

// PendingIndex answers "does this client already have a pending suggestion of
// this category" against a snapshot taken before a generator run.
type PendingIndex struct {
	byType    map[pendingKey]bool
	upgrade   map[string]bool
	loyalty   map[string]bool
	campaigns map[string]bool
}

// NewPendingIndex indexes the pending suggestions. Non-pending entries are
// ignored.
func NewPendingIndex(pending []Suggestion) *PendingIndex {
	idx := &PendingIndex{
		byType:    make(map[pendingKey]bool, len(pending)),
		upgrade:   make(map[string]bool),
		loyalty:   make(map[string]bool),
		campaigns: make(map[string]bool),
	}
	for _, s := range pending {
		if s.Status != StatusPending {
			continue
		}
		idx.byType[pendingKey{s.ClientID, s.Type}] = true
		if s.Type != TypePromotion {
			continue
		}
		idx.campaigns[s.Reason] = true
		if strings.HasPrefix(s.Reason, upgradeTag) {
			idx.upgrade[s.ClientID] = true
		}
		if strings.Contains(s.Reason, loyaltyTag) {
			idx.loyalty[s.ClientID] = true
		}
	}
	return idx
}

// Has reports whether the client has a pending suggestion of type t.
func (p *PendingIndex) Has(clientID string, t Type) bool {
	return p.byType[pendingKey{clientID, t}]
}

// HasUpgrade reports a pending upgrade-tagged promotion for the client.
func (p *PendingIndex) HasUpgrade(clientID string) bool {
	return p.upgrade[clientID]
}

// HasLoyalty reports a pending loyalty-tagged promotion for the client.
func (p *PendingIndex) HasLoyalty(clientID string) bool {
	return p.loyalty[clientID]
}

// HasCampaign reports whether any client still has a pending promotion with
// the given campaign reason.
func (p *PendingIndex) HasCampaign(reason string) bool {
	return p.campaigns[reason]
}
