package domain

import "context"

//go:generate mockgen -source=access_query.go -destination=access_query_mock.go -package=domain

type AccessQuery interface {
	Fetch(ctx context.Context, subjectID string) (*RemoteAccess, error)
}

// SessionRevoker signs a subject out when their access has been revoked.
type SessionRevoker interface {
	Revoke(ctx context.Context, subjectID string) error
}
