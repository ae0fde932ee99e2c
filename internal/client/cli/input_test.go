package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer

	v, err := GetSimpleText(bufio.NewReader(strings.NewReader("  hello \n")), "Say", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, "Say\n> ", out.String())

	v, err = GetSimpleText(bufio.NewReader(strings.NewReader("partial")), "Say", &out)
	require.NoError(t, err)
	assert.Equal(t, "partial", v)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Say", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	stubPasswords(t, "secret")
	var out bytes.Buffer

	pw, err := GetPassword(&out, "Enter password")
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	_, err := GetPassword(&bytes.Buffer{}, "Enter password")
	require.Error(t, err)
}
