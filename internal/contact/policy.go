package contact

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/stanstork/contact-api/internal/models"
)

// RecipientPolicy picks one admin out of a non-empty candidate list.
type RecipientPolicy interface {
	Select(admins []models.Profile) models.Profile
}

const (
	PolicyFirst      = "first"
	PolicyRoundRobin = "round_robin"
)

// FirstPolicy always routes to the first admin in resolver order.
type FirstPolicy struct{}

func (FirstPolicy) Select(admins []models.Profile) models.Profile {
	return admins[0]
}

func (FirstPolicy) String() string { return PolicyFirst }

// RoundRobinPolicy rotates through the candidates on successive selections.
// Resolver order is not stable across calls, so the rotation is only as fair as
// the store's ordering.
type RoundRobinPolicy struct {
	next atomic.Uint64
}

func (p *RoundRobinPolicy) Select(admins []models.Profile) models.Profile {
	n := p.next.Add(1) - 1
	return admins[n%uint64(len(admins))]
}

func (p *RoundRobinPolicy) String() string { return PolicyRoundRobin }

// NewPolicy resolves a configured policy name. An empty name selects FirstPolicy.
func NewPolicy(name string) (RecipientPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFirst:
		return FirstPolicy{}, nil
	case PolicyRoundRobin:
		return &RoundRobinPolicy{}, nil
	default:
		return nil, errors.Errorf("unknown recipient policy %q", name)
	}
}
