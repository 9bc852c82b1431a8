package config_test

import (
	"flag"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/primesearch/goowl/config"
	"github.com/primesearch/goowl/testing/assert"
	"github.com/primesearch/goowl/testing/require"
)

func TestFromContext(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", 0)
	set.String("verbosity", "debug", "")
	set.String("dir", "/shared", "")
	set.Int("instance", 3, "")
	set.Uint("proof-power", 9, "")
	ctx := cli.NewContext(app, set, nil)

	cfg := config.FromContext(ctx)
	require.NotNil(t, cfg)
	assert.Equal(t, "debug", cfg.Verbosity)
	assert.Equal(t, "/shared", cfg.Dir)
	assert.Equal(t, 3, cfg.Instance)
	assert.Equal(t, uint32(9), cfg.ProofPower)
}

func TestWorkerDir(t *testing.T) {
	cfg := &config.Config{Instance: 2}
	assert.Equal(t, "worker-2", cfg.WorkerDir())
}
