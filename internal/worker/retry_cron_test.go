package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeRetryBackoff_DoublesPerAttempt(t *testing.T) {
	assert.Equal(t, time.Minute, computeRetryBackoff(1))
	assert.Equal(t, 2*time.Minute, computeRetryBackoff(2))
	assert.Equal(t, 4*time.Minute, computeRetryBackoff(3))
	assert.Equal(t, 8*time.Minute, computeRetryBackoff(4))
}

func TestComputeRetryBackoff_ClampsZeroAndNegative(t *testing.T) {
	assert.Equal(t, time.Minute, computeRetryBackoff(0))
	assert.Equal(t, time.Minute, computeRetryBackoff(-3))
}
