package db

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dcastano/cafeteriapos/pkg/metrics"
)

func TestGormLoggerTraceRecordsMetrics(t *testing.T) {
	m := metrics.New("test")
	l := NewGormLogger(false, time.Second, m)

	fc := func() (string, int64) { return "SELECT 1", 1 }
	l.Trace(context.Background(), time.Now(), fc, nil)
	l.Trace(context.Background(), time.Now(), fc, nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBQueriesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DBQueryDuration))
}

func TestGormLoggerTraceNilMetrics(t *testing.T) {
	l := NewGormLogger(false, time.Second, nil)

	// 无指标实例时不崩溃
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
}
