// Package identity persists the only two pieces of session state that survive
// a client restart: the authenticated user's id and the resolved tenant.
// Token and role are deliberately never persisted; both are re-derived through
// session restoration on every start.
package identity

import "context"

type Repo interface {
	SetUserID(ctx context.Context, id string) error
	UserID(ctx context.Context) (string, error) // "" when absent
	ClearUserID(ctx context.Context) error

	SetTenant(ctx context.Context, tenant string) error
	Tenant(ctx context.Context) (string, error) // "" when absent
	ClearTenant(ctx context.Context) error
}
