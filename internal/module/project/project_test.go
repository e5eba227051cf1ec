package project

import (
	"testing"

	"contract-tracking-system/internal/model"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-05-20")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "2026-05-20", got.Format(model.DateLayout))

	got, err = parseDate("  ")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseDate("2026年5月")
	require.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	require.Equal(t, model.DefaultContractProgress, orDefault("", model.DefaultContractProgress))
	require.Equal(t, model.DefaultContractProgress, orDefault("  ", model.DefaultContractProgress))
	require.Equal(t, "进行中", orDefault("进行中", model.DefaultContractProgress))
}
