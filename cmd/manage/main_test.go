package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"direction=down", "name=a=b", "empty="})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"direction": "down", "name": "a=b", "empty": ""}, got)

	_, err = parseParams([]string{"novalue"})
	require.Error(t, err)
	_, err = parseParams([]string{"=x"})
	require.Error(t, err)
}

func TestRootCmd_RoutesCommand(t *testing.T) {
	t.Setenv(config.SettingsModuleEnv, "test")

	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetArgs([]string{"--base-dir", "../..", "routes"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "status")
	require.Contains(t, out.String(), "/status")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	t.Setenv(config.SettingsModuleEnv, "test")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--base-dir", "../..", "nonexistent"})

	err := root.ExecuteContext(context.Background())
	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestRootCmd_RequiresCommand(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{})

	require.Error(t, root.Execute())
}
