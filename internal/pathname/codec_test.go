package pathname

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_ToFilename(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		path    string
		wantErr bool
	}{
		{name: "no limit", limit: 0, path: "/" + strings.Repeat("a", 1000)},
		{name: "negative limit means none", limit: -1, path: "/" + strings.Repeat("a", 1000)},
		{name: "within limit", limit: 250, path: "/home/alice/notes.txt"},
		{name: "exactly at limit", limit: len("／") + 10, path: "/" + strings.Repeat("a", 10)},
		{name: "over limit", limit: 250, path: "/" + strings.Repeat("a", 250), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCodec(Options{MaxFilenameBytes: tt.limit})
			name, err := c.ToFilename(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFilenameTooLong)
				var encErr *EncodeError
				require.True(t, errors.As(err, &encErr))
				assert.Equal(t, tt.limit, encErr.Limit)
				assert.Greater(t, encErr.Length, tt.limit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Encode(tt.path), name)

			back, err := c.ToPath(name)
			require.NoError(t, err)
			assert.Equal(t, tt.path, back)
		})
	}
}

func TestCodec_MaxFilenameBytes(t *testing.T) {
	assert.Equal(t, 0, NewCodec(Options{}).MaxFilenameBytes())
	assert.Equal(t, 0, NewCodec(Options{MaxFilenameBytes: -5}).MaxFilenameBytes())
	assert.Equal(t, 250, NewCodec(Options{MaxFilenameBytes: 250}).MaxFilenameBytes())
}
