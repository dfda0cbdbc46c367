package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAliases(t *testing.T) {
	p := NewParser("dnrbot")

	tests := []struct {
		text string
		want string
	}{
		{"/s", CmdSummary},
		{"/summ", CmdSummary},
		{"/summary", CmdSummary},
		{"/generate", CmdSummary},
		{"/tldr", CmdSummary},
		{"/l", CmdShow},
		{"/last", CmdShow},
		{"/show", CmdShow},
		{"/status", CmdStatus},
		{"/help", CmdHelp},
		{"/?", CmdHelp},
		{"/buy 100", CmdPay},
		{"/p 100", CmdPay},
	}
	for _, tt := range tests {
		cmd, ok := p.Parse(tt.text)
		require.True(t, ok, tt.text)
		require.Equal(t, tt.want, cmd.Name, tt.text)
	}
}

func TestParseArgs(t *testing.T) {
	p := NewParser("dnrbot")

	cmd, ok := p.Parse("/tier basic")
	require.True(t, ok)
	require.Equal(t, CmdTier, cmd.Name)
	require.Equal(t, "basic", cmd.Args)

	cmd, ok = p.Parse("/pay  250 ")
	require.True(t, ok)
	require.Equal(t, "250", cmd.Args)
}

func TestParseBotMention(t *testing.T) {
	p := NewParser("dnrbot")

	cmd, ok := p.Parse("/summ@dnrbot")
	require.True(t, ok)
	require.Equal(t, CmdSummary, cmd.Name)

	cmd, ok = p.Parse("/summ@DNRBot")
	require.True(t, ok, "mentions match case-insensitively")
	require.Equal(t, CmdSummary, cmd.Name)

	_, ok = p.Parse("/summ@otherbot")
	require.False(t, ok, "addressed to another bot")
}

func TestParseUnknownCommandIsStillOurs(t *testing.T) {
	p := NewParser("dnrbot")

	cmd, ok := p.Parse("/frobnicate")
	require.True(t, ok)
	require.Equal(t, "frobnicate", cmd.Name)
}

func TestParseNonCommands(t *testing.T) {
	p := NewParser("dnrbot")

	_, ok := p.Parse("hello")
	require.False(t, ok)

	_, ok = p.Parse("/")
	require.False(t, ok)
}
