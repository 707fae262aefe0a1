package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/jmoiron/sqlx"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Roles used as Casbin subjects. Each role inherits the permissions of the one before it.
const (
	RoleAnonymous = "anonymous"
	RoleUser      = "user"
	RoleAdmin     = "admin"
)

// modelText is the RBAC model: a request is allowed when the subject, or a
// role it inherits, has a policy whose path pattern and method match.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// Model returns the Casbin model used by the application.
func Model() (model.Model, error) {
	return model.NewModelFromString(modelText)
}

// NewEnforcer creates and configures a new Casbin enforcer whose policies are
// stored in the casbin_rule table of db.
func NewEnforcer(db *sqlx.DB) (enforcer *casbin.Enforcer, err error) {
	m, err := Model()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			enforcer, err = nil, fmt.Errorf("casbin adapter: %v", r)
		}
	}()

	// The adapter reuses the application's connection pool. It panics when
	// casbin_rule is missing, so migrations must have run first.
	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DB:        db,
		TableName: "casbin_rule",
	})

	enforcer, err = casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	// keyMatch2 lets "/delete/*" match "/delete/skill/3".
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	return enforcer, nil
}

// NewMemoryEnforcer creates an enforcer that keeps its policies in memory only.
func NewMemoryEnforcer() (*casbin.Enforcer, error) {
	m, err := Model()
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}
