package kernel_test

import (
	"testing"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	p, err := kernel.ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, kernel.PriorityHigh, p)

	_, err = kernel.ParsePriority("critical")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPriority_Rank(t *testing.T) {
	all := kernel.AllPriorities()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Rank(), all[i-1].Rank())
	}
	assert.Equal(t, 0, kernel.Priority("nope").Rank())
}
