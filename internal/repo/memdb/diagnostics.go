package memdb

import "context"

type DiagnosticsRepo struct {
	*Store
}

func NewDiagnosticsRepo(s *Store) *DiagnosticsRepo {
	return &DiagnosticsRepo{s}
}

func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}
