package viewsync_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-settlement/internal/cache"
	"github.com/bionicotaku/lingo-services-settlement/internal/services"
	"github.com/bionicotaku/lingo-services-settlement/internal/services/mocks"
	"github.com/bionicotaku/lingo-services-settlement/internal/tasks/viewsync"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

type fakeSession struct{ ctx context.Context }

func (fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

var policy = cache.Policy{LockWait: 20 * time.Millisecond, LockLease: time.Second}

func newRunner(store cache.Store, contents services.ContentsRepository, interval time.Duration) *viewsync.Runner {
	logger := log.NewStdLogger(io.Discard)
	svc := services.NewViewSyncService(store, contents, fakeTxManager{}, policy,
		services.ViewSyncOptions{Interval: interval, Lookback: 5 * time.Minute}, time.UTC, logger)
	return viewsync.ProvideRunner(svc, logger)
}

func TestRunOnceDrainsPreviousMinute(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	store := cache.NewMemoryStore()
	closed := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, store.HSet(ctx, cache.ViewCountKey(closed), map[string]string{"7": "4"}, time.Hour))

	contents := mocks.NewMockContentsRepository(ctrl)
	contents.EXPECT().AddTotalViews(gomock.Any(), gomock.Any(), int64(7), int64(4)).Return(nil)

	result, err := newRunner(store, contents, time.Minute).RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), result.Views)
	require.Equal(t, 1, result.Buckets)
}

func TestRunStopsOnCancelAndKeepsGoingAfterFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := cache.NewMemoryStore()
	closed := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, store.HSet(ctx, cache.ViewCountKey(closed), map[string]string{"7": "4"}, time.Hour))

	contents := mocks.NewMockContentsRepository(ctrl)
	gomock.InOrder(
		contents.EXPECT().AddTotalViews(gomock.Any(), gomock.Any(), int64(7), int64(4)).Return(errors.New("db down")),
		contents.EXPECT().AddTotalViews(gomock.Any(), gomock.Any(), int64(7), int64(4)).Return(nil),
	)

	done := make(chan error, 1)
	go func() { done <- newRunner(store, contents, 10*time.Millisecond).Run(ctx) }()

	require.Eventually(t, func() bool {
		left, err := store.HGetAll(context.Background(), cache.ViewCountKey(closed))
		return err == nil && len(left) == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
