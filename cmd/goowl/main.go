// goowl manages PRP proof residues and worktodo assignments for a
// distributed Mersenne primality testing worker. The heavy iteration runs
// on an attached compute engine; this binary claims an assignment, sets up
// its proof checkpoint schedule, and verifies proof files. It does not run
// the iteration or build proofs.
package main

import (
	"os"

	humanize "github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/primesearch/goowl/config"
	"github.com/primesearch/goowl/gpu"
	"github.com/primesearch/goowl/proof"
	"github.com/primesearch/goowl/worktodo"
)

func main() {
	app := &cli.App{
		Name:   "goowl",
		Usage:  "Mersenne PRP proof management and task dispatch",
		Flags:  config.Flags,
		Action: run,
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String(config.VerbosityFlag.Name))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := config.FromContext(ctx)

	if cfg.VerifyPath != "" {
		return verifyProof(cfg.VerifyPath)
	}

	task, err := nextTask(cfg)
	if err != nil {
		return err
	}
	if task == nil {
		log.Info("No task available")
		return nil
	}

	power := cfg.ProofPower
	if power == 0 {
		power = proof.BestPower(task.Exponent)
	}
	log.WithFields(log.Fields{
		"kind":     task.Kind.String(),
		"exponent": task.Exponent,
		"aid":      task.AID,
		"power":    power,
		"disk":     humanize.SI(proof.DiskUsageGB(task.Exponent, power)*1e9, "B"),
	}).Info("Claimed task")

	if _, err := proof.NewSet(cfg.WorkerDir(), task.Exponent, task.KnownFactors, power); err != nil {
		return err
	}
	return nil
}

// nextTask resolves direct --prp/--ll requests for instance 0 before
// falling back to the worktodo files.
func nextTask(cfg *config.Config) (*worktodo.Task, error) {
	if cfg.Instance == 0 {
		if cfg.PRPExp != 0 {
			return &worktodo.Task{Kind: worktodo.PRP, Exponent: cfg.PRPExp, ResidueType: 1}, nil
		}
		if cfg.LLExp != 0 {
			return &worktodo.Task{Kind: worktodo.LL, Exponent: cfg.LLExp, ResidueType: 1}, nil
		}
	}
	return worktodo.GetTask(cfg.Dir, ".", cfg.Instance)
}

func verifyProof(path string) error {
	info, err := proof.GetInfo(path)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"exponent": info.Exp,
		"power":    info.Power,
		"md5":      info.MD5,
	}).Info("Verifying proof")

	p, err := proof.Load(path)
	if err != nil {
		return err
	}
	res, err := p.Verify(gpu.NewSoftEngine(p.E), nil)
	if err != nil {
		return err
	}
	if !res.Valid {
		return cli.Exit("proof verification failed", 1)
	}
	return nil
}
