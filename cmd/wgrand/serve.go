package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
	"github.com/openrng/wgrand/transform"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// batchRequest is one client ask: which distribution, how many, with what
// parameters. The generator is per-connection, so successive requests on the
// same socket continue the same stream; sending "seed" (any value, zero
// included) restarts it.
type batchRequest struct {
	Dist string  `json:"dist"` // "uniform", "ints", "bernoulli"
	N    int     `json:"n"`
	Seed *uint32 `json:"seed,omitempty"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P    float32 `json:"p"`
}

type batchResponse struct {
	Dist   string    `json:"dist"`
	Floats []float32 `json:"floats,omitempty"`
	Ints   []int32   `json:"ints,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	http.HandleFunc("/ws", handleSamples)
	fmt.Printf("wgrand serving on ws://%s/ws\n", addr)
	return http.ListenAndServe(addr, nil)
}

func handleSamples(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	q := device.NewQueue()
	var g *gen.Generator

	for {
		var req batchRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		g = nextGenerator(g, req.Seed)
		resp := runBatch(q, g, req)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

// nextGenerator applies the request's seed field: an explicit seed starts a
// fresh stream, an absent one continues the connection's stream. The first
// request on a connection defaults to seed 0 when it carries none.
func nextGenerator(g *gen.Generator, seed *uint32) *gen.Generator {
	if seed != nil {
		return gen.New(*seed)
	}
	if g == nil {
		return gen.New(0)
	}
	return g
}

func runBatch(q *device.Queue, g *gen.Generator, req batchRequest) batchResponse {
	resp := batchResponse{Dist: req.Dist}
	fail := func(err error) batchResponse {
		resp.Error = err.Error()
		return resp
	}

	switch req.Dist {
	case "uniform":
		out := make([]float32, req.N)
		ev, st := g.UniformRaw(q, req.N, out)
		if err := transform.CheckGenerator("gen.UniformRaw", st); err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		ev, err := transform.RangeFloat32Raw(q, float32(req.Min), float32(req.Max), req.N, out)
		if err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		resp.Floats = out

	case "ints":
		raw := make([]uint32, req.N)
		ev, st := g.GenerateRaw(q, req.N, raw)
		if err := transform.CheckGenerator("gen.GenerateRaw", st); err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		out := make([]int32, req.N)
		ev, err := transform.RangeIntRaw(q, int32(req.Min), int32(req.Max), req.N, raw, out)
		if err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		resp.Ints = out

	case "bernoulli":
		in := make([]float32, req.N)
		ev, st := g.UniformRaw(q, req.N, in)
		if err := transform.CheckGenerator("gen.UniformRaw", st); err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		out := make([]int32, req.N)
		ev, err := transform.BernoulliRaw(q, req.P, req.N, in, out)
		if err != nil {
			return fail(err)
		}
		if err := ev.Wait(); err != nil {
			return fail(err)
		}
		resp.Ints = out

	default:
		resp.Error = fmt.Sprintf("unknown dist %q", req.Dist)
	}
	return resp
}
