package config_test

import (
	"testing"

	"github.com/go-surena/surena/config"
	"github.com/stretchr/testify/assert"
)

func TestFastEngineConfigIsFasterThanDefault(t *testing.T) {
	def := config.DefaultEngineConfig()
	fast := config.FastEngineConfig()

	assert.Less(t, fast.PollInterval, def.PollInterval)
	assert.Less(t, fast.HeartbeatBudget, def.HeartbeatBudget)
}

func TestDefaultEngineConfigValues(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	assert.True(t, cfg.PollInterval > 0)
	assert.Greater(t, cfg.InboxSize, 0)
}
