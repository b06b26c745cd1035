package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

// instance is one storefront process: its own bus and sessions over shared storage.
type instance struct {
	bus      *events.RabbitBus
	sessions *session.Manager
}

func newInstance(ctx context.Context, t *testing.T, rabbitURL string, shared storage.Store, id string) instance {
	t.Helper()
	logger := zap.NewNop()

	conn, err := events.Dial(rabbitURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	bus, err := events.NewRabbitBus(conn, id, logger)
	require.NoError(t, err)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Close() })

	store := storage.NewNotifyingStore(shared, bus, logger)
	sessions := session.NewManager(store, bus, id, 0, logger)
	t.Cleanup(sessions.Close)
	return instance{bus: bus, sessions: sessions}
}

func TestStorefrontIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, dsn := startPostgres(ctx, t)
	defer terminateContainer(t, pgC)
	rabbitC, rabbitURL := startRabbitMQ(ctx, t)
	defer terminateContainer(t, rabbitC)

	require.NoError(t, db.RunMigrations(dsn, zap.NewNop()))
	// running twice is a no-op
	require.NoError(t, db.RunMigrations(dsn, zap.NewNop()))

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	shared := storage.NewPostgresStore(pool)

	t.Run("postgres store", func(t *testing.T) {
		_, err := shared.Get(ctx, "s0", storage.KeyCart)
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, shared.Set(ctx, "s0", storage.KeyStoreName, []byte("Montebello")))
		require.NoError(t, shared.Set(ctx, "s0", storage.KeyStoreName, []byte("La Cabrera")))
		got, err := shared.Get(ctx, "s0", storage.KeyStoreName)
		require.NoError(t, err)
		require.Equal(t, "La Cabrera", string(got))

		require.NoError(t, shared.Delete(ctx, "s0", storage.KeyStoreName))
		_, err = shared.Get(ctx, "s0", storage.KeyStoreName)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("cart change on one instance reloads the other", func(t *testing.T) {
		a := newInstance(ctx, t, rabbitURL, shared, "instance-a")
		b := newInstance(ctx, t, rabbitURL, shared, "instance-b")

		onA, err := a.sessions.Get(ctx, "tab-1")
		require.NoError(t, err)
		require.Empty(t, onA.Cart().Lines)

		onB, err := b.sessions.Get(ctx, "tab-1")
		require.NoError(t, err)
		_, err = onB.Add(ctx, cart.Line{ProductID: "bife-de-chorizo", Quantity: 2, UnitPrice: decimal.NewFromInt(9800)})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return onA.Cart().Totals.Items == 2
		}, 20*time.Second, 100*time.Millisecond)
		require.True(t, onA.Cart().Totals.Price.Equal(decimal.NewFromInt(19600)))
	})
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())
	return container, dsn
}

func startRabbitMQ(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}
