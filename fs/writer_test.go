package fs_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://example.com/docs/api/users",
			want: "example.com/docs/api/users.json",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/docs/",
			want: "example.com/docs/index.json",
		},
		{
			name: "root path becomes index",
			url:  "https://example.com/",
			want: "example.com/index.json",
		},
		{
			name: "root without trailing slash",
			url:  "https://example.com",
			want: "example.com/index.json",
		},
		{
			name: "ignores query string",
			url:  "https://example.com/docs/api?version=2",
			want: "example.com/docs/api.json",
		},
		{
			name: "ignores fragment",
			url:  "https://example.com/docs/api#section",
			want: "example.com/docs/api.json",
		},
		{
			name: "replaces port separator",
			url:  "http://127.0.0.1:8080/a",
			want: "127.0.0.1_8080/a.json",
		},
		{
			name:    "rejects relative URL",
			url:     "/docs/api",
			wantErr: true,
		},
		{
			name:    "rejects path traversal",
			url:     "https://example.com/../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "rejects unparseable URL",
			url:     "http://[::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, pagemeta.EINVALID, pagemeta.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRecord(t *testing.T) {
	t.Parallel()

	t.Run("includes url alongside metadata fields", func(t *testing.T) {
		t.Parallel()

		m := pagemeta.NewPageMetadata()
		m.Description = "Docs"
		m.Headings = []pagemeta.Heading{{Level: "h1", Text: "Title"}}

		b, err := fs.FormatRecord("https://example.com/", m)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, "https://example.com/", got["url"])
		assert.Equal(t, "Docs", got["description"])
		assert.Equal(t, []any{}, got["images"])
		assert.Equal(t, []any{map[string]any{"level": "h1", "text": "Title"}}, got["headings"])
	})

	t.Run("rejects nil metadata", func(t *testing.T) {
		t.Parallel()

		_, err := fs.FormatRecord("https://example.com/", nil)

		require.Error(t, err)
		assert.Equal(t, pagemeta.EINVALID, pagemeta.ErrorCode(err))
	})
}
