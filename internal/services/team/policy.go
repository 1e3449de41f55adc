package team

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/kusitms-com/meetupd/internal/db/models"
)

//go:embed policy.conf
var policyModelContent string

// Team actions checked against the membership role of the actor.
const (
	ActionChangeRole = "change_role"
)

// defaultPolicies grants team actions to roles.
var defaultPolicies = [][]string{
	{models.RoleName(models.RoleTeamLeader), ActionChangeRole},
}

// RolePolicy decides whether a membership role may perform an action.
type RolePolicy interface {
	Allowed(role int, action string) (bool, error)
}

// Policy is a casbin-backed RolePolicy with an in-memory rule set.
type Policy struct {
	enforcer casbin.IEnforcer
}

// NewPolicy builds the enforcer from the embedded model and default rules.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse team policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create team policy enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("load team policies: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform action.
func (p *Policy) Allowed(role int, action string) (bool, error) {
	ok, err := p.enforcer.Enforce(models.RoleName(role), action)
	if err != nil {
		return false, fmt.Errorf("enforce team policy: %w", err)
	}
	return ok, nil
}
