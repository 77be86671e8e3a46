package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChoiceString(t *testing.T) {
	require.Equal(t, "A", Choice(0).String())
	require.Equal(t, "E", Choice(4).String())
	require.Equal(t, "-", NoAnswer.String())
	require.Equal(t, "-", Choice(7).String())
}

func TestChoiceFromLetter(t *testing.T) {
	c, ok := ChoiceFromLetter('c')
	require.True(t, ok)
	require.Equal(t, Choice(2), c)

	_, ok = ChoiceFromLetter('F')
	require.False(t, ok)
}

func TestAnswerVectorString(t *testing.T) {
	v := AnswerVector{0, 1, NoAnswer, 3, 4}
	require.Equal(t, "AB-DE", v.String())
}

func TestAnswerKeyLookup(t *testing.T) {
	k := AnswerKey{1: 2, 3: 0}
	c, ok := k.Lookup(0)
	require.True(t, ok)
	require.Equal(t, Choice(2), c)

	_, ok = k.Lookup(1)
	require.False(t, ok)

	var empty AnswerKey
	_, ok = empty.Lookup(0)
	require.False(t, ok)

	require.Equal(t, []int{1, 3}, k.Questions())
}

func TestScanRequestItems(t *testing.T) {
	require.Equal(t, MaxItems, ScanRequest{}.Items())
	require.Equal(t, MaxItems, ScanRequest{ActiveItems: 80}.Items())
	require.Equal(t, 20, ScanRequest{ActiveItems: 20}.Items())
}
