package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisReportCache(client, 5*time.Minute), mr
}

var today = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)

func keyFor(userID uuid.UUID, period string, gen int64) domain.ReportKey {
	return domain.ReportKey{UserID: userID, Period: period, Day: today, Generation: gen}
}

func sampleReport() *domain.Report {
	return &domain.Report{
		Period:    domain.PeriodSixMonths,
		StartDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   today,
		MonthlyData: []domain.MonthlyPoint{
			{Month: "Oct", Income: decimal.RequireFromString("1000"), Expenses: decimal.RequireFromString("250.40"), Savings: decimal.Zero},
		},
		Metrics: domain.SummaryMetrics{TotalExpenses: decimal.RequireFromString("250.40")},
	}
}

func TestReportCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), keyFor(uuid.New(), domain.PeriodYear, 0))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCache_SetThenGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	userID := uuid.New()
	key := keyFor(userID, domain.PeriodSixMonths, 0)

	require.NoError(t, c.Set(ctx, key, sampleReport()))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "250.40", got.Metrics.TotalExpenses.StringFixed(2))
	require.Len(t, got.MonthlyData, 1)
	assert.Equal(t, "Oct", got.MonthlyData[0].Month)

	// A different day is a different key
	tomorrow := key
	tomorrow.Day = today.AddDate(0, 0, 1)
	other, err := c.Get(ctx, tomorrow)
	require.NoError(t, err)
	assert.Nil(t, other)

	assert.Equal(t, 5*time.Minute, mr.TTL(reportKey(key)))
}

func TestReportCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := keyFor(uuid.New(), domain.PeriodYear, 0)

	require.NoError(t, c.Set(ctx, key, sampleReport()))
	mr.FastForward(6 * time.Minute)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCache_InvalidateUser(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, keyFor(alice, domain.PeriodYear, 0), sampleReport()))
	require.NoError(t, c.Set(ctx, keyFor(alice, domain.PeriodSixMonths, 0), sampleReport()))
	require.NoError(t, c.Set(ctx, keyFor(bob, domain.PeriodYear, 0), sampleReport()))

	require.NoError(t, c.InvalidateUser(ctx, alice))

	gen, err := c.Generation(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	assert.False(t, mr.Exists(reportKey(keyFor(alice, domain.PeriodYear, 0))))
	assert.False(t, mr.Exists(reportKey(keyFor(alice, domain.PeriodSixMonths, 0))))

	bobGen, err := c.Generation(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bobGen)
	got, err := c.Get(ctx, keyFor(bob, domain.PeriodYear, bobGen))
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Nothing left to drop, the generation still advances
	require.NoError(t, c.InvalidateUser(ctx, alice))
	gen, err = c.Generation(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestReportCache_WriteFromOlderGenerationIsUnreachable(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	userID := uuid.New()

	before, err := c.Generation(ctx, userID)
	require.NoError(t, err)

	// a change lands while the report is being built
	require.NoError(t, c.InvalidateUser(ctx, userID))
	require.NoError(t, c.Set(ctx, keyFor(userID, domain.PeriodYear, before), sampleReport()))

	now, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	got, err := c.Get(ctx, keyFor(userID, domain.PeriodYear, now))
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, time.Duration(0), mr.TTL(generationKey(userID)), "generation never expires")
}

func TestReportCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	key := keyFor(uuid.New(), domain.PeriodYear, 0)
	require.NoError(t, mr.Set(reportKey(key), "{not json"))

	_, err := c.Get(context.Background(), key)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
