package verification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"veriscan.ai/verify-api-gateway/app/domain/common"
)

func TestNormalizeTextCollapsesWhitespaceAndCase(t *testing.T) {
	base := NormalizeText("vaccine causes x")

	variants := []string{
		"  Vaccine   causes X  ",
		"vaccine\tcauses\nx",
		"VACCINE CAUSES X",
	}
	for _, v := range variants {
		require.Equal(t, base, NormalizeText(v), "variant %q should map to the same key", v)
	}

	require.True(t, strings.HasPrefix(base, "txt_"))
	require.Len(t, base, len("txt_")+64)
}

func TestNormalizeTextDistinguishesContent(t *testing.T) {
	require.NotEqual(t, NormalizeText("vaccine causes x"), NormalizeText("vaccine causes y"))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "query string dropped",
			a:    "https://example.com/article?utm_source=feed&ref=tw",
			b:    "https://example.com/article",
			same: true,
		},
		{
			name: "fragment dropped",
			a:    "https://example.com/article#section-2",
			b:    "https://example.com/article",
			same: true,
		},
		{
			name: "host case ignored",
			a:    "https://Example.COM/article",
			b:    "https://example.com/article",
			same: true,
		},
		{
			name: "default https port stripped",
			a:    "https://example.com:443/article",
			b:    "https://example.com/article",
			same: true,
		},
		{
			name: "default http port stripped",
			a:    "http://example.com:80/article",
			b:    "http://example.com/article",
			same: true,
		},
		{
			name: "non-default port kept",
			a:    "https://example.com:8443/article",
			b:    "https://example.com/article",
			same: false,
		},
		{
			name: "path is significant",
			a:    "https://example.com/article",
			b:    "https://example.com/other",
			same: false,
		},
		{
			name: "scheme is significant",
			a:    "http://example.com/article",
			b:    "https://example.com/article",
			same: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := NormalizeURL(tt.a)
			require.NoError(t, err)
			keyB, err := NormalizeURL(tt.b)
			require.NoError(t, err)
			if tt.same {
				require.Equal(t, keyA, keyB)
			} else {
				require.NotEqual(t, keyA, keyB)
			}
			require.True(t, strings.HasPrefix(keyA, "url_"))
		})
	}
}

func TestNormalizeURLRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		"ftp://example.com/file",
		"example.com/no-scheme",
		"https://",
		"://broken",
	} {
		_, err := NormalizeURL(raw)
		require.ErrorIs(t, err, common.ErrInvalidInput, "input %q", raw)
	}
}

func TestNormalizeContentDispatchesOnKind(t *testing.T) {
	textKey, err := NormalizeContent("hello world", KindText)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(textKey, "txt_"))

	urlKey, err := NormalizeContent("https://example.com/a", KindURL)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(urlKey, "url_"))

	_, err = NormalizeContent("not a url", KindURL)
	require.Error(t, err)
}
