package auth

import "context"

// API is the remote session endpoint pair. *upstream.Client satisfies it.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
}
