package policy

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/otakusphere/backend/internal/models"
)

// Resources and actions covered by the policy.
const (
	ResourcePost    = "post"
	ResourceComment = "comment"
	ResourceGenre   = "genre"
	ResourceUser    = "user"

	ActionModify   = "modify"
	ActionModerate = "moderate"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Policy answers "may this actor perform this action on this resource". It
// consolidates the role checks that would otherwise be repeated per handler.
type Policy struct {
	enforcer *casbin.Enforcer
}

// New builds the policy with the built-in role rules: admins may modify any
// post or comment and moderate genres and users.
func New() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	rules := [][]string{
		{models.RoleAdmin, ResourcePost, ActionModify},
		{models.RoleAdmin, ResourceComment, ActionModify},
		{models.RoleAdmin, ResourceGenre, ActionModerate},
		{models.RoleAdmin, ResourceUser, ActionModerate},
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, err
	}

	return &Policy{enforcer: e}, nil
}

// CanModify reports whether actor may edit or delete an entity of the given
// resource kind owned by ownerID. Owners may always modify what they own;
// beyond that the role rules decide.
func (p *Policy) CanModify(actor *models.User, ownerID uint, resource string) bool {
	if actor == nil {
		return false
	}
	if actor.ID == ownerID {
		return true
	}
	ok, err := p.enforcer.Enforce(actor.Role, resource, ActionModify)
	return err == nil && ok
}

// CanModerate reports whether actor may use the moderation surface for the
// given resource kind.
func (p *Policy) CanModerate(actor *models.User, resource string) bool {
	if actor == nil {
		return false
	}
	ok, err := p.enforcer.Enforce(actor.Role, resource, ActionModerate)
	return err == nil && ok
}
