package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chris/settlement-console/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{fmt.Errorf("request x: %w", storage.ErrNotFound), OutcomeNotFound},
		{storage.ErrAlreadyProcessed, OutcomeAlreadyProcessed},
		{storage.ErrInsufficientBalance, OutcomeInsufficientBalance},
		{storage.ErrTransientConflict, OutcomeTransientConflict},
		{errors.New("network"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestObserve(t *testing.T) {
	t.Run("counts operations by action and outcome", func(t *testing.T) {
		// Arrange
		m := NewSettlement(prometheus.NewRegistry())

		// Act
		m.Observe("approve_deposit", nil, 1, 10*time.Millisecond)
		m.Observe("approve_deposit", nil, 2, 10*time.Millisecond)
		m.Observe("approve_deposit", storage.ErrAlreadyProcessed, 1, time.Millisecond)

		// Assert
		assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("approve_deposit", OutcomeSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("approve_deposit", OutcomeAlreadyProcessed)))
		assert.Equal(t, 1, testutil.CollectAndCount(m.Attempts))
	})

	t.Run("nil collector is a no-op", func(t *testing.T) {
		var m *Settlement
		assert.NotPanics(t, func() { m.Observe("reject_deposit", nil, 1, time.Second) })
	})
}
