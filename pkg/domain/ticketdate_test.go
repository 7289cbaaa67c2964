package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicketDate(t *testing.T) {
	got, err := NormalizeTicketDate("26.08.30 14:05")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30 14:05", got)

	got, err = NormalizeTicketDate("2026-08-30 14:05")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30 14:05", got)
}

func TestNormalizeTicketDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "30/08/2026", "2026-08-30", "26.13.40 99:99"} {
		_, err := NormalizeTicketDate(raw)
		assert.ErrorIs(t, err, ErrInvalidTicketDate, "input %q", raw)
	}
}
