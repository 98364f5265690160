package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSchema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	username VARCHAR(150) NOT NULL UNIQUE,
	email VARCHAR(254) UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT FALSE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	product_id UUID PRIMARY KEY,
	name VARCHAR(120) NOT NULL UNIQUE,
	description TEXT,
	price DOUBLE PRECISION NOT NULL CHECK (price >= 1),
	created_by UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

func setupPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	_, err = db.Exec(testSchema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	email := "alice@example.com"
	err := repo.Save(ctx, "alice", "hash123", &email)
	assert.NoError(t, err)

	var user struct {
		Username     string  `db:"username"`
		Email        *string `db:"email"`
		PasswordHash string  `db:"password_hash"`
	}
	err = db.Get(&user, "SELECT username, email, password_hash FROM users WHERE username=$1", "alice")
	assert.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", *user.Email)
	assert.Equal(t, "hash123", user.PasswordHash)
}

func TestUserWriteRepository_Save_NoEmail(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	err := repo.Save(ctx, "bob", "hash123", nil)
	assert.NoError(t, err)

	var email *string
	err = db.Get(&email, "SELECT email FROM users WHERE username=$1", "bob")
	assert.NoError(t, err)
	assert.Nil(t, email)
}

func TestUserWriteRepository_Save_Conflict(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	email := "carol@example.com"
	assert.NoError(t, repo.Save(ctx, "carol", "hash1", &email))

	t.Run("duplicate username", func(t *testing.T) {
		other := "other@example.com"
		err := repo.Save(ctx, "carol", "hash2", &other)
		assert.ErrorIs(t, err, ErrUserConflict)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Save(ctx, "carol2", "hash2", &email)
		assert.ErrorIs(t, err, ErrUserConflict)
	})
}

func TestUserReadRepository_GetByUsernameOrEmail(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	charlieEmail := "charlie@example.com"
	daveEmail := "dave@example.com"
	writeRepo.Save(ctx, "charlie", "secret", &charlieEmail)
	writeRepo.Save(ctx, "dave", "secret2", &daveEmail)

	t.Run("ByUsername", func(t *testing.T) {
		username := "charlie"
		user, err := readRepo.GetByUsernameOrEmail(ctx, &username, nil)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "charlie", user.Username)
	})

	t.Run("ByEmail", func(t *testing.T) {
		user, err := readRepo.GetByUsernameOrEmail(ctx, nil, &daveEmail)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "dave", user.Username)
	})

	t.Run("ByUsernameAndEmail", func(t *testing.T) {
		username := "charlie"
		user, err := readRepo.GetByUsernameOrEmail(ctx, &username, &charlieEmail)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "charlie", user.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		username := "nonexistent"
		user, err := readRepo.GetByUsernameOrEmail(ctx, &username, nil)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserWriteRepository_Delete(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	assert.NoError(t, writeRepo.Save(ctx, "eve", "secret", nil))
	assert.NoError(t, writeRepo.Delete(ctx, "eve"))

	username := "eve"
	user, err := readRepo.GetByUsernameOrEmail(ctx, &username, nil)
	assert.NoError(t, err)
	assert.Nil(t, user)
}
