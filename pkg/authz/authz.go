// Package authz gates routes by token role using a casbin RBAC model.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Policy allows role to call methods (a regexp) on paths matching obj (keyMatch2 syntax).
type Policy struct {
	Role    enums.Role
	Object  string
	Methods string
}

// DefaultPolicies maps the route groups in api/routes to roles.
var DefaultPolicies = []Policy{
	{Role: enums.RoleAdmin, Object: "/api/v1/admin/*", Methods: "^(GET|POST|PUT|PATCH|DELETE)$"},
	{Role: enums.RoleBuyer, Object: "/api/v1/buyer/*", Methods: "^(GET|POST|PUT|PATCH|DELETE)$"},
}

// Authorizer answers whether a role may call a route.
type Authorizer interface {
	Allowed(role enums.Role, path, method string) (bool, error)
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

// New builds an in-memory enforcer loaded with policies.
func New(policies []Policy) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init rbac enforcer: %w", err)
	}
	for _, p := range policies {
		if !p.Role.IsValid() {
			return nil, fmt.Errorf("policy references unknown role %q", p.Role)
		}
		if _, err := e.AddPolicy(p.Role.String(), p.Object, p.Methods); err != nil {
			return nil, fmt.Errorf("add policy %s %s: %w", p.Role, p.Object, err)
		}
	}
	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Allowed(role enums.Role, path, method string) (bool, error) {
	if !role.IsValid() {
		return false, nil
	}
	allowed, err := e.enforcer.Enforce(role.String(), path, method)
	if err != nil {
		return false, fmt.Errorf("rbac enforce: %w", err)
	}
	return allowed, nil
}
