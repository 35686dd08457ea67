package token_management

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_AccumulatesUsage(t *testing.T) {
	tm := NewTokenManager()

	tm.UsedTokens(100, 200)
	tm.UsedTokens(50, 25)

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 375, total)
	assert.Equal(t, 150, input)
	assert.Equal(t, 225, output)
}

func TestTokenManager_ClearToken(t *testing.T) {
	tm := NewTokenManager()
	tm.UsedTokens(10, 20)

	tm.ClearToken()

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Zero(t, total)
	assert.Zero(t, input)
	assert.Zero(t, output)
}

func TestDisplayTokens_WritesToStderrOnly(t *testing.T) {
	tm := NewTokenManager()
	tm.UsedTokens(100, 50)

	stdoutRead, stdoutWrite, err := os.Pipe()
	require.NoError(t, err)
	stderrRead, stderrWrite, err := os.Pipe()
	require.NoError(t, err)

	origStdout, origStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdoutWrite, stderrWrite

	tm.DisplayTokens("llama3-70b-8192")

	os.Stdout, os.Stderr = origStdout, origStderr
	require.NoError(t, stdoutWrite.Close())
	require.NoError(t, stderrWrite.Close())

	stdoutOut, err := io.ReadAll(stdoutRead)
	require.NoError(t, err)
	stderrOut, err := io.ReadAll(stderrRead)
	require.NoError(t, err)

	assert.Empty(t, string(stdoutOut))
	assert.Contains(t, string(stderrOut), "Token Used: 150")
	assert.Contains(t, string(stderrOut), "llama3-70b-8192")
}

func TestCalculateCost_KnownModel(t *testing.T) {
	tm := NewTokenManager()

	// llama3-70b-8192: 0.59 $/M input, 0.79 $/M output
	cost := tm.CalculateCost("llama3-70b-8192", 1000000, 1000000)
	assert.InDelta(t, 1.38, cost, 0.0001)
}

func TestCalculateCost_CaseInsensitiveModelName(t *testing.T) {
	tm := NewTokenManager()

	cost := tm.CalculateCost("LLAMA3-70B-8192", 1000000, 0)
	assert.InDelta(t, 0.59, cost, 0.0001)
}

func TestCalculateCost_UnknownModelIsFree(t *testing.T) {
	tm := NewTokenManager()

	assert.Zero(t, tm.CalculateCost("made-up-model", 1000, 1000))
}
