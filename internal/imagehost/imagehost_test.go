package imagehost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"with extension", "http://cdn.local/bucket/products/abc123.png", "products/abc123"},
		{"no extension", "http://cdn.local/bucket/products/abc123", "products/abc123"},
		{"double extension keeps first segment", "http://cdn.local/bucket/products/abc.tar.gz", "products/abc"},
		{"bare segment", "abc.png", "products/abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PublicID("products", tc.url))
		})
	}
}
