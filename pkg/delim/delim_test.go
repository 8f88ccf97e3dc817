package delim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleCharacter(t *testing.T) {
	c, err := Parse(",")
	require.NoError(t, err)
	assert.Equal(t, byte(','), c)

	c, err = Parse("|")
	require.NoError(t, err)
	assert.Equal(t, byte('|'), c)
}

func TestParseRejectsMultipleCharacters(t *testing.T) {
	_, err := Parse("ab")
	assert.ErrorIs(t, err, ErrDelimiter)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrDelimiter)
}

func TestParseRejectsNonPrintable(t *testing.T) {
	_, err := Parse("\x01")
	assert.ErrorIs(t, err, ErrDelimiter)

	_, err = Parse("é")
	assert.ErrorIs(t, err, ErrDelimiter)
}
