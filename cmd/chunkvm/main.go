// Command chunkvm runs chunk-encoded programs against the
// interpreter, with flags for JIT tuning, coherence checking, and
// checkpointing.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vybium/chunkvm/internal/chunkvm/observe"
	"github.com/vybium/chunkvm/pkg/chunkvm"
)

func main() {
	app := cli.NewApp()
	app.Name = "chunkvm"
	app.Usage = "run programs encoded as prime-factorization chunks"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "decode and execute a chunk program",
			ArgsUsage: "<program-file>",
			Flags: []cli.Flag{
				cli.Int64Flag{Name: "jit-threshold", Usage: "hit count before compiling a hot IP, 0 disables JIT"},
				cli.DurationFlag{Name: "jit-ttl", Value: 5 * time.Second, Usage: "TTL for compiled JIT blocks"},
				cli.StringFlag{Name: "coherence", Value: "disabled", Usage: "coherence mode: strict, tolerant, disabled"},
				cli.Float64Flag{Name: "coherence-tolerance", Value: 0, Usage: "allowed checksum drift"},
				cli.StringFlag{Name: "checkpoint-dir", Usage: "enable file-backed checkpoints under this directory"},
				cli.Int64Flag{Name: "checkpoint-every", Usage: "instructions between checkpoints, 0 disables"},
				cli.BoolFlag{Name: "profile", Usage: "print a profiler report after the run"},
			},
			Action: runCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("expected exactly one program file argument", 2)
	}
	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer f.Close()

	chunks, err := chunkvm.LoadProgram(f)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var backend chunkvm.CheckpointBackend
	if dir := c.String("checkpoint-dir"); dir != "" {
		backend = chunkvm.NewFileBackend(dir)
	}

	machine := chunkvm.NewVM(chunkvm.Config{
		JITThreshold:       c.Int64("jit-threshold"),
		JITTTL:             c.Duration("jit-ttl"),
		CoherenceMode:      observe.CoherenceMode(c.String("coherence")),
		CoherenceTolerance: c.Float64("coherence-tolerance"),
		CheckpointBackend:  backend,
		CheckpointEvery:    c.Int64("checkpoint-every"),
		EnableProfiler:     c.Bool("profile"),
	})

	out, runErr := machine.Run(chunks)
	if out != "" {
		fmt.Fprint(os.Stdout, out)
		fmt.Fprintln(os.Stdout)
	}
	if runErr != nil {
		return cli.NewExitError(runErr.Error(), 1)
	}

	if c.Bool("profile") {
		color.New(color.FgCyan).Fprintln(os.Stderr, machine.ProfilerReport())
	}
	return nil
}
