// Package config defines the command line flags for the worker and their
// resolved form.
package config

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// DirFlag points at the master directory holding the shared worktodo.txt.
	DirFlag = &cli.StringFlag{
		Name:  "dir",
		Usage: "Master directory containing the shared worktodo.txt",
	}
	// InstanceFlag selects the per-instance worktodo and worker directory.
	InstanceFlag = &cli.IntFlag{
		Name:  "instance",
		Usage: "Worker instance number",
		Value: 0,
	}
	// ProofPowerFlag overrides the proof power; 0 selects the policy power.
	ProofPowerFlag = &cli.UintFlag{
		Name:  "proof-power",
		Usage: "Proof power (1-12), 0 selects the best power for the exponent",
		Value: 0,
	}
	// PRPFlag runs a PRP assignment for the given exponent directly.
	PRPFlag = &cli.UintFlag{
		Name:  "prp",
		Usage: "PRP-test the given exponent, bypassing worktodo",
	}
	// LLFlag runs an LL assignment for the given exponent directly.
	LLFlag = &cli.UintFlag{
		Name:  "ll",
		Usage: "LL-test the given exponent, bypassing worktodo",
	}
	// VerifyFlag verifies an existing proof file.
	VerifyFlag = &cli.StringFlag{
		Name:  "verify",
		Usage: "Verify the given PRP proof file",
	}
)

// Flags is the flag set of the worker binary.
var Flags = []cli.Flag{
	VerbosityFlag,
	DirFlag,
	InstanceFlag,
	ProofPowerFlag,
	PRPFlag,
	LLFlag,
	VerifyFlag,
}

// Config carries the resolved flag values.
type Config struct {
	Verbosity  string
	Dir        string
	Instance   int
	ProofPower uint32
	PRPExp     uint32
	LLExp      uint32
	VerifyPath string
}

// FromContext resolves the flag values of a cli invocation.
func FromContext(ctx *cli.Context) *Config {
	return &Config{
		Verbosity:  ctx.String(VerbosityFlag.Name),
		Dir:        ctx.String(DirFlag.Name),
		Instance:   ctx.Int(InstanceFlag.Name),
		ProofPower: uint32(ctx.Uint(ProofPowerFlag.Name)),
		PRPExp:     uint32(ctx.Uint(PRPFlag.Name)),
		LLExp:      uint32(ctx.Uint(LLFlag.Name)),
		VerifyPath: ctx.String(VerifyFlag.Name),
	}
}

// WorkerDir returns the per-instance directory holding proof residues.
func (c *Config) WorkerDir() string {
	return fmt.Sprintf("worker-%d", c.Instance)
}
