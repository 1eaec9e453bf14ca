// Package repository is the generic sqlx data access layer every domain
// repository embeds. Columns come from the db tags of T, embedded structs
// included, and all values are bound as named arguments.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"docemania/infras/otel"
	"docemania/infras/postgres"
	"docemania/shared/constant"
	"docemania/shared/dto"
	"docemania/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRequiredFilter = errors.New("a filter is required for this statement")
	ErrDuplicate      = errors.New("duplicate record")
	ErrNoFields       = errors.New("no fields to update")
)

type Repository[T any] struct {
	db     *postgres.Connection
	otel   otel.Otel
	entity string
	query  query
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:     dbConnection,
		otel:   otl,
		entity: entityName,
		query: query{
			table:   tableName,
			primary: primaryColumn,
			columns: columnsOf(reflect.TypeOf(zero)),
		},
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op, statement string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
	scope.SetAttribute(constant.OtelQueryAttributeKey, statement)

	return ctx, scope
}

// fail logs and traces err and wraps it with the operation and entity.
// Unique violations are reported as ErrDuplicate.
func (repo *Repository[T]) fail(scope otel.Scope, op string, err error) error {
	scope.TraceError(err)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return fmt.Errorf("failed to %s %s: %w", op, repo.entity, ErrDuplicate)
	}

	logger.ErrorWithStack(err)

	return fmt.Errorf("failed to %s %s: %w", op, repo.entity, err)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) (err error) {
	statement := repo.query.insert()

	ctx, scope := repo.scope(ctx, "Insert", statement)
	defer scope.End()

	if _, err = repo.db.Write.NamedExecContext(ctx, statement, model); err != nil {
		return repo.fail(scope, "insert", err)
	}

	return nil
}

// Get returns the first row matching filter, or the zero T when none does.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (model T, err error) {
	statement, args := repo.query.selectRows(dto.QueryParams{Limit: 1}, filter, columns...)

	ctx, scope := repo.scope(ctx, "Get", statement)
	defer scope.End()

	err = repo.named(ctx, statement, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get", err)
	}

	return model, nil
}

// GetAll returns the rows matching filter ordered and paginated by params. A
// zero Limit returns every row.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) (models []T, err error) {
	statement, args := repo.query.selectRows(params, filter, columns...)

	ctx, scope := repo.scope(ctx, "GetAll", statement)
	defer scope.End()

	models = []T{}

	err = repo.named(ctx, statement, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})
	if err != nil {
		return nil, repo.fail(scope, "list", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (count int, err error) {
	statement, args := repo.query.count(filter)

	ctx, scope := repo.scope(ctx, "Count", statement)
	defer scope.End()

	err = repo.named(ctx, statement, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})
	if err != nil {
		return 0, repo.fail(scope, "count", err)
	}

	return count, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (exist bool, err error) {
	statement, args, err := repo.query.exists(filter)
	if err != nil {
		return false, err
	}

	ctx, scope := repo.scope(ctx, "Exist", statement)
	defer scope.End()

	err = repo.named(ctx, statement, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})
	if err != nil {
		return false, repo.fail(scope, "check", err)
	}

	return exist, nil
}

// Update sets the columns in fields on every row matching filter.
func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (err error) {
	statement, args, err := repo.query.update(fields, filter)
	if err != nil {
		return err
	}

	ctx, scope := repo.scope(ctx, "Update", statement)
	defer scope.End()

	if _, err = repo.db.Write.NamedExecContext(ctx, statement, args); err != nil {
		return repo.fail(scope, "update", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (err error) {
	statement, args, err := repo.query.delete(filter)
	if err != nil {
		return err
	}

	ctx, scope := repo.scope(ctx, "Delete", statement)
	defer scope.End()

	if _, err = repo.db.Write.NamedExecContext(ctx, statement, args); err != nil {
		return repo.fail(scope, "delete", err)
	}

	return nil
}

// named prepares statement on the read pool, runs fn and closes the statement.
func (repo *Repository[T]) named(ctx context.Context, statement string, fn func(*sqlx.NamedStmt) error) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, statement)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return fn(stmt)
}
