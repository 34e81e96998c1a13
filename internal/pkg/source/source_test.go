package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	f, err := Open(path)
	require.Error(t, err)
	assert.Nil(t, f)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestOpen_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestWrapReadError_Malformed(t *testing.T) {
	r := NewReader(strings.NewReader("a,\"unterminated\n"), ',')
	_, err := r.Read()
	require.Error(t, err)

	wrapped := WrapReadError("table.csv", err)
	var mi *MalformedInputError
	require.True(t, errors.As(wrapped, &mi))
	assert.Equal(t, "table.csv", mi.Path)
	assert.ErrorIs(t, wrapped, ErrMalformedInput)
}

func TestWrapReadError_Nil(t *testing.T) {
	assert.NoError(t, WrapReadError("x", nil))
}

func TestNewReader_VariableFields(t *testing.T) {
	r := NewReader(strings.NewReader("a b c\nd\n"), ' ')
	first, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, first, 3)
	second, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		raw     string
		bits    int
		want    uint64
		wantErr bool
	}{
		{"443", 16, 443, false},
		{" 6 ", 8, 6, false},
		{"+6", 32, 6, false},
		{"70000", 32, 70000, false},
		{"4294967296", 32, 0, true},
		{"+-1", 32, 0, true},
		{"+", 32, 0, true},
		{"0", 16, 0, false},
		{"65536", 16, 0, true},
		{"256", 8, 0, true},
		{"-1", 16, 0, true},
		{"tcp", 8, 0, true},
		{"", 16, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseUint("logs.txt", 3, 7, tt.raw, tt.bits)
			if tt.wantErr {
				var nf *NumericFormatError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, 3, nf.Line)
				assert.Equal(t, 7, nf.Column)
				assert.Equal(t, tt.raw, nf.Value)
				assert.ErrorIs(t, err, ErrNumericFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SV_P2", Normalize("sv_P2"))
	assert.Equal(t, "TCP", Normalize("tcp"))
}
