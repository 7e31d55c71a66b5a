package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
	"github.com/openrng/wgrand/transform"
)

var version = "v0.3.0"

func main() {
	cmd := &cli.Command{
		Name:    "wgrand",
		Usage:   "Generate and post-process random batches on CPU or GPU",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "gpu",
				Usage: "Dispatch kernels to the WebGPU device",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Trace kernel dispatches",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "uniform",
				Usage: "Uniform floats in [min, max)",
				Flags: append(commonFlags(),
					&cli.FloatFlag{Name: "min", Value: 0},
					&cli.FloatFlag{Name: "max", Value: 1},
					&cli.BoolFlag{Name: "accurate", Usage: "Clamp rounding overshoot to the bounds"},
				),
				Action: uniformAction,
			},
			{
				Name:  "ints",
				Usage: "Integers in [min, max) from raw 32-bit draws",
				Flags: append(commonFlags(),
					&cli.IntFlag{Name: "min", Value: 0},
					&cli.IntFlag{Name: "max", Value: 100},
				),
				Action: intsAction,
			},
			{
				Name:  "bernoulli",
				Usage: "0/1 trials with success probability p",
				Flags: append(commonFlags(),
					&cli.FloatFlag{Name: "p", Value: 0.5},
				),
				Action: bernoulliAction,
			},
			{
				Name:   "info",
				Usage:  "Report the selected compute backend",
				Action: infoAction,
			},
			{
				Name:  "serve",
				Usage: "Stream sample batches over a WebSocket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8791", Usage: "Listen address"},
				},
				Action: serveAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "wgrand:", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "n", Value: 10, Usage: "Sample count"},
		&cli.UintFlag{Name: "seed", Value: 1, Usage: "Generator seed"},
	}
}

// newQueue picks the backend. --gpu without a usable adapter is an error
// rather than a silent fallback.
func newQueue(cmd *cli.Command) (*device.Queue, error) {
	device.Debug = cmd.Bool("debug")
	if cmd.Bool("gpu") {
		return device.NewGPUQueue()
	}
	return device.NewQueue(), nil
}

func uniformAction(ctx context.Context, cmd *cli.Command) error {
	q, err := newQueue(cmd)
	if err != nil {
		return err
	}
	n := int(cmd.Int("n"))
	lo := float32(cmd.Float("min"))
	hi := float32(cmd.Float("max"))

	g := gen.New(uint32(cmd.Uint("seed")))
	out := make([]float32, n)
	ev, st := g.UniformRaw(q, n, out)
	if err := transform.CheckGenerator("gen.UniformRaw", st); err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	if cmd.Bool("accurate") {
		ev, err = transform.RangeFloat32AccurateRaw(q, lo, hi, n, out)
	} else {
		ev, err = transform.RangeFloat32Raw(q, lo, hi, n, out)
	}
	if err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	printFloats(out)
	return nil
}

func intsAction(ctx context.Context, cmd *cli.Command) error {
	q, err := newQueue(cmd)
	if err != nil {
		return err
	}
	n := int(cmd.Int("n"))
	lo := int32(cmd.Int("min"))
	hi := int32(cmd.Int("max"))

	g := gen.New(uint32(cmd.Uint("seed")))
	raw := make([]uint32, n)
	ev, st := g.GenerateRaw(q, n, raw)
	if err := transform.CheckGenerator("gen.GenerateRaw", st); err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	out := make([]int32, n)
	ev, err = transform.RangeIntRaw(q, lo, hi, n, raw, out)
	if err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	vals := make([]string, len(out))
	for i, v := range out {
		vals[i] = fmt.Sprintf("%d", v)
	}
	printValues(vals)
	return nil
}

func bernoulliAction(ctx context.Context, cmd *cli.Command) error {
	q, err := newQueue(cmd)
	if err != nil {
		return err
	}
	n := int(cmd.Int("n"))
	p := float32(cmd.Float("p"))

	g := gen.New(uint32(cmd.Uint("seed")))
	in := make([]float32, n)
	ev, st := g.UniformRaw(q, n, in)
	if err := transform.CheckGenerator("gen.UniformRaw", st); err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	out := make([]int32, n)
	ev, err = transform.BernoulliRaw(q, p, n, in, out)
	if err != nil {
		return err
	}
	if err := ev.Wait(); err != nil {
		return err
	}

	vals := make([]string, len(out))
	for i, v := range out {
		vals[i] = fmt.Sprintf("%d", v)
	}
	printValues(vals)
	return nil
}

func infoAction(ctx context.Context, cmd *cli.Command) error {
	c, err := device.GetContext()
	if err != nil {
		fmt.Printf("backend: CPU (%v)\n", err)
		return nil
	}
	fmt.Printf("backend: WebGPU\nadapter: %s\n", c.AdapterName())
	return nil
}

func printFloats(vals []float32) {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%g", v)
	}
	printValues(out)
}

// printValues writes one value per line on a terminal, space-separated when
// piped so the output is easy to consume downstream.
func printValues(vals []string) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		for _, v := range vals {
			fmt.Println(v)
		}
		return
	}
	fmt.Println(strings.Join(vals, " "))
}
