package account

import "context"

// IdentityProvider removes sign-in accounts. Implementations return an error
// matching identityerrors.ErrAccountNotFound when the account is already gone.
//
//go:generate mockgen -source=account_identity.go -destination=mock/identity_provider_mock.go -package=mock
type IdentityProvider interface {
	DeleteAccount(ctx context.Context, uid string) error
}

type SessionInvalidator interface {
	Invalidate(ctx context.Context, uids ...string)
}
