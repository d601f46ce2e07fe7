package inventoryRepository

import (
	"context"
	"database/sql"
	"errors"

	"StokAsistan/internal/api/inventory"
	contextPkg "StokAsistan/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// executor runs named queries and logs failures under the operation name.
type executor struct {
	q   SQLExecutor
	log *logrus.Logger
}

func (e executor) bind(ctx context.Context, op, namedQuery string, argsKV map[string]interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return "", nil, err
	}
	return e.q.Rebind(query), args, nil
}

func (e executor) exec(ctx context.Context, op, namedQuery string, argsKV map[string]interface{}) (int64, error) {
	query, args, err := e.bind(ctx, op, namedQuery, argsKV)
	if err != nil {
		return 0, err
	}

	result, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error(op + " execution err")
		return 0, translate(err)
	}

	return result.RowsAffected()
}

// get scans a single row into dest. A missing row is reported as notFound.
func (e executor) get(ctx context.Context, op string, dest interface{}, namedQuery string, argsKV map[string]interface{}, notFound error) error {
	query, args, err := e.bind(ctx, op, namedQuery, argsKV)
	if err != nil {
		return err
	}

	if err := e.q.QueryRowxContext(ctx, query, args...).StructScan(dest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			e.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
			}).Debug(op + " no rows")
			return notFound
		}
		e.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error(op + " execution err")
		return translate(err)
	}

	return nil
}

func (e executor) delete(ctx context.Context, op, namedQuery, id string, notFound error) error {
	affected, err := e.exec(ctx, op, namedQuery, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return inventory.ErrAlreadyExists
	case pqForeignKeyViolation:
		return inventory.ErrInvalidReference
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64Ptr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullFloat64Ptr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
