package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"task-auction-api/internal/repo/repo_errors"
	"task-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) DoesUserExistById(ctx context.Context, id string) (bool, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return false, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id").
		From("users").
		Where("id = ?", uuidForm).
		ToSql()

	var uid uuid.UUID
	err = r.Database.QueryRow(sqlReq, args...).Scan(&uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *UserRepo) GetUserRoleById(ctx context.Context, id string) (string, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("role").
		From("users").
		Where("id = ?", uuidForm).
		ToSql()

	var role string
	err = r.Database.QueryRow(sqlReq, args...).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repo_errors.ErrNotFound
		}

		return "", err
	}

	return role, nil
}
