package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parceltrack/console/internal/client/repositories/metadata"
	"github.com/parceltrack/console/internal/common"
	"github.com/parceltrack/console/internal/cryptox"
	"github.com/parceltrack/console/internal/dbx"
)

// saltKey holds the per-database salt used to derive the sealing key.
const saltKey = "token_salt"

const saltSize = 16

// SQLStore keeps the pair in the local metadata table so a session survives
// restarts. With a secret configured, values are sealed with AES-GCM under
// a key derived from the secret and a per-database salt.
type SQLStore struct {
	db   *sql.DB
	repo metadata.Repository
	key  []byte
}

// NewSQLStore expects db to be migrated already. An empty secret stores
// tokens in clear.
func NewSQLStore(ctx context.Context, db *sql.DB, secret string) (*SQLStore, error) {
	s := &SQLStore{db: db, repo: metadata.NewSQLiteRepository(db)}
	if secret == "" {
		return s, nil
	}

	salt, err := s.loadOrCreateSalt(ctx)
	if err != nil {
		return nil, err
	}
	s.key = cryptox.DeriveKey([]byte(secret), salt)
	return s, nil
}

func (s *SQLStore) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	salt, err := s.repo.Get(ctx, saltKey)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("load token salt: %w", err)
	}

	salt = common.GenerateRandByteArray(saltSize)
	if err := s.repo.Set(ctx, saltKey, salt); err != nil {
		return nil, fmt.Errorf("save token salt: %w", err)
	}
	return salt, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if s.key != nil {
		value, err = cryptox.Open(value, s.key)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", key, err)
		}
	}
	return string(value), nil
}

func (s *SQLStore) Set(ctx context.Context, values map[string]string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for k, v := range values {
			value := []byte(v)
			if s.key != nil {
				sealed, err := cryptox.Seal(value, s.key)
				if err != nil {
					return fmt.Errorf("seal %s: %w", k, err)
				}
				value = sealed
			}
			if err := repo.Set(ctx, k, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
	})
}
