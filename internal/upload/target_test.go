package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetAppScheme(t *testing.T) {
	target, err := ParseTarget("stylemark://upload?endpoint=https://styles.example.com&style=S123&token=tok42")
	require.NoError(t, err)

	assert.Equal(t, "https://styles.example.com", target.BaseURL)
	assert.Equal(t, "S123", target.StyleID)
	assert.Equal(t, "tok42", target.Token)
	assert.Equal(t, "https://styles.example.com/styles/S123/photos", target.UploadURL())
}

func TestParseTargetAppSchemeTrailingSlash(t *testing.T) {
	target, err := ParseTarget("stylemark://upload?endpoint=https://styles.example.com/&style=S123&token=tok42")
	require.NoError(t, err)
	assert.Equal(t, "https://styles.example.com", target.BaseURL)
}

func TestParseTargetWebURL(t *testing.T) {
	target, err := ParseTarget("https://styles.example.com/styles/S9/upload?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "https://styles.example.com", target.BaseURL)
	assert.Equal(t, "S9", target.StyleID)
	assert.Equal(t, "abc", target.Token)
}

func TestParseTargetErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"wrong scheme", "ftp://host/styles/S1/upload?token=x"},
		{"unknown action", "stylemark://download?endpoint=https://h&style=S&token=x"},
		{"missing endpoint", "stylemark://upload?style=S&token=x"},
		{"missing style", "stylemark://upload?endpoint=https://h&token=x"},
		{"missing token", "stylemark://upload?endpoint=https://h&style=S"},
		{"bad web path", "https://host/photos/S1/upload?token=x"},
		{"web missing token", "https://host/styles/S1/upload"},
		{"not a url", "not a qr payload at all \x7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(tt.payload)
			assert.ErrorIs(t, err, ErrBadTarget)
		})
	}
}

func TestConfigApplyOverride(t *testing.T) {
	target := Target{BaseURL: "https://prod.example.com", StyleID: "S1", Token: "t"}

	cfg := Config{EndpointOverride: "https://staging.example.com"}
	assert.Equal(t, "https://staging.example.com", cfg.Apply(target).BaseURL)

	cfg = Config{}
	assert.Equal(t, "https://prod.example.com", cfg.Apply(target).BaseURL)
}
