package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppCommands(t *testing.T) {
	app := newApp()

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"migrate", "hash-passwords", "create-user"}, names)
}

func TestCreateUserRequiresFlags(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run([]string{"ssisctl", "create-user", "--username", "registrar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestMissingJWTSecretFailsBeforeConnecting(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run([]string{"ssisctl", "--config", "missing.yaml", "hash-passwords"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is required")
}
