package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestDiscover(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		wantErr error
	}{
		{name: "single_yaml", files: []string{"triplog.yaml"}, want: "triplog.yaml"},
		{name: "dotfile", files: []string{".triplog.toml"}, want: ".triplog.toml"},
		{name: "visible_before_dotfile", files: []string{".triplog.yaml", "triplog.json"}, want: "triplog.json"},
		{name: "format_order", files: []string{"triplog.toml", "triplog.hcl"}, want: "triplog.hcl"},
		{name: "ignores_other_files", files: []string{"triplog.txt", "other.yaml"}, wantErr: ErrNotFound},
		{name: "empty_dir", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte{}, 0644))
			}

			got, err := Discover(context.Background(), dir)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should be %v", tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}
