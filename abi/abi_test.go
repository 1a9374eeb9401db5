package abi_test

import (
	"testing"

	"github.com/go-surena/surena/abi"
	"github.com/go-surena/surena/engine"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/semverx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"a", "ab", "tictactoe", "rock-paper-scissors", "v1_2"}
	for _, s := range valid {
		assert.NoError(t, abi.ValidateIdentifier(s), s)
	}

	invalid := []string{"", "-leading", "trailing-", "_leading", "has space", "has/slash"}
	for _, s := range invalid {
		assert.Error(t, abi.ValidateIdentifier(s), s)
	}
}

func TestCheckAPIVersion(t *testing.T) {
	assert.NoError(t, abi.CheckAPIVersion(21, abi.GameAPIVersion))
	assert.Error(t, abi.CheckAPIVersion(20, abi.GameAPIVersion))
}

func TestValidateGameManifest(t *testing.T) {
	good := abi.GameManifest{
		APIVersion: abi.GameAPIVersion,
		Methods: func() []*game.Methods {
			return []*game.Methods{{GameName: "tictactoe", ImplName: "ref", Version: semverx.Version{Major: 1}}}
		},
	}
	require.NoError(t, abi.ValidateGameManifest(good))

	badVersion := good
	badVersion.APIVersion = 1
	assert.Error(t, abi.ValidateGameManifest(badVersion))

	badName := abi.GameManifest{
		APIVersion: abi.GameAPIVersion,
		Methods: func() []*game.Methods {
			return []*game.Methods{{GameName: "-bad", ImplName: "ref"}}
		},
	}
	assert.Error(t, abi.ValidateGameManifest(badName))
}

func TestValidateEngineManifest(t *testing.T) {
	good := abi.EngineManifest{
		APIVersion: abi.EngineAPIVersion,
		Methods: func() []*engine.Methods {
			return []*engine.Methods{{Name: "randomengine", Version: semverx.Version{Major: 1}}}
		},
	}
	require.NoError(t, abi.ValidateEngineManifest(good))

	badVersion := good
	badVersion.APIVersion = 99
	assert.Error(t, abi.ValidateEngineManifest(badVersion))
}
