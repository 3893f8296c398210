package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCmd_Memory(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"seed", "--users", "0", "--pets", "3", "--seed", "1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "users: 0/0 created, pets: 3/3 created\n", out.String())
}

func TestSeedCmd_RejectsOverLimit(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed", "--pets", "1001"})

	assert.Error(t, cmd.Execute())
}
