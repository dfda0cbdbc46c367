package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitMessageShortTextIsUntouched(t *testing.T) {
	parts := SplitMessage("hello", 10)
	require.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessageSplitsLongText(t *testing.T) {
	text := strings.Repeat("a", 25)
	parts := SplitMessage(text, 10)

	require.Len(t, parts, 3)
	require.Equal(t, text, strings.Join(parts, ""))
	for _, p := range parts {
		require.LessOrEqual(t, len([]rune(p)), 10)
	}
}

func TestSplitMessagePrefersNewlineBreaks(t *testing.T) {
	text := "first line here\nsecond line that keeps going well past the limit"
	parts := SplitMessage(text, 20)

	require.Greater(t, len(parts), 1)
	require.Equal(t, "first line here\n", parts[0])
}

func TestSplitMessageCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("э", 15)
	parts := SplitMessage(text, 10)

	require.Len(t, parts, 2)
	require.Equal(t, strings.Repeat("э", 10), parts[0])
	require.Equal(t, strings.Repeat("э", 5), parts[1])
}
