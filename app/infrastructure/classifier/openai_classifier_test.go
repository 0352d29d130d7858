package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/utils/httpclients/serper"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want verification.VerificationStatus
	}{
		{"TRUE", verification.StatusTrue},
		{"true", verification.StatusTrue},
		{"False", verification.StatusFalse},
		{"INDETERMINATE", verification.StatusIndeterminate},
		{"unknown-verdict", verification.StatusError},
		{"", verification.StatusError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseStatus(tt.in), "input %q", tt.in)
	}
}

func TestParseConfidence(t *testing.T) {
	require.Equal(t, verification.ConfidenceHigh, parseConfidence("high"))
	require.Equal(t, verification.ConfidenceMedium, parseConfidence("MEDIUM"))
	require.Equal(t, verification.ConfidenceLow, parseConfidence("Low"))
	require.Equal(t, verification.Confidence(""), parseConfidence("very sure"))
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt("the earth is flat", nil)
	require.Contains(t, prompt, "Claim:\nthe earth is flat")
	require.NotContains(t, prompt, "Web context")

	prompt = buildUserPrompt("the earth is flat", []serper.OrganicResult{
		{Title: "Earth", Link: "https://example.com/earth", Snippet: "The Earth is an oblate spheroid."},
	})
	require.Contains(t, prompt, "Web context:")
	require.Contains(t, prompt, "https://example.com/earth")
	require.Contains(t, prompt, "oblate spheroid")
}
