package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFileType(t *testing.T) {
	require.Equal(t, FileTypeContract, NormalizeFileType("contract"))
	require.Equal(t, FileTypeAcceptance, NormalizeFileType("acceptance"))
	require.Equal(t, FileTypeOther, NormalizeFileType("other"))
	require.Equal(t, FileTypeOther, NormalizeFileType(""))
	require.Equal(t, FileTypeOther, NormalizeFileType("随便写的"))
}

func TestValidDataType(t *testing.T) {
	for _, dt := range []string{DataTypeString, DataTypeInteger, DataTypeDate, DataTypeBoolean} {
		require.True(t, ValidDataType(dt))
	}
	require.False(t, ValidDataType("float"))
	require.False(t, ValidDataType(""))
}
