package identity

import "context"

type adminContextKey struct{}

type clientContextKey struct{}

func WithAdmin(ctx context.Context, user AdminUser) context.Context {
	return context.WithValue(ctx, adminContextKey{}, user)
}

func AdminFromContext(ctx context.Context) (AdminUser, bool) {
	user, ok := ctx.Value(adminContextKey{}).(AdminUser)
	return user, ok
}

func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(clientContextKey{}).(Client)
	return client, ok
}
