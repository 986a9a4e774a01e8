// Command geninstances generates deterministic warehouse simulation
// instances and writes each as a JSON file, for use as fixed inputs to
// the benchmark runner or for manual inspection.
//
// Grounded on the teacher's tools/gen_instances/main.go: same flag
// set shape, same "one JSON file per generated instance" output
// convention, same scaling-sweep mode. The instance body itself
// describes this repository's domain (a plan size plus robot/request
// counts and a seed) rather than the teacher's grid/task/robot-type
// schema.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
)

// Instance is a self-contained description of one simulation run's
// inputs: enough to reconstruct the plan and the exact request
// sequence Generate would produce for it.
type Instance struct {
	Name       string   `json:"name"`
	Seed       int64    `json:"seed"`
	XSize      int      `json:"x_size"`
	YSize      int      `json:"y_size"`
	NrRobots   int      `json:"nr_robots"`
	NrRequests int      `json:"nr_requests"`
	TotalTime  int      `json:"total_time"`
	Requests   []Request `json:"requests"`
	Generated  string   `json:"generated"`
}

// Request mirrors demand.Request in a JSON-friendly shape.
type Request struct {
	ID   int `json:"id"`
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

func generateInstance(seed int64, xSize, ySize, nrRobots, nrRequests, totalTime int, generatedAt string) *Instance {
	plan := grid.NewOneThreeRectangle(xSize, ySize)
	generator := demand.NewUniform(seed)
	requests := generator.Generate(plan, nrRequests)

	inst := &Instance{
		Name:       fmt.Sprintf("warehousesim_%dx%d_r%d_q%d_%d", xSize, ySize, nrRobots, nrRequests, seed),
		Seed:       seed,
		XSize:      xSize,
		YSize:      ySize,
		NrRobots:   nrRobots,
		NrRequests: nrRequests,
		TotalTime:  totalTime,
		Generated:  generatedAt,
	}
	for _, r := range requests {
		inst.Requests = append(inst.Requests, Request{
			ID:   r.ID,
			From: [2]int{r.From.X, r.From.Y},
			To:   [2]int{r.To.X, r.To.Y},
		})
	}
	return inst
}

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	xSize := flag.Int("x", 10, "plan width")
	ySize := flag.Int("y", 10, "plan height")
	nrRobots := flag.Int("robots", 4, "number of robots")
	nrRequests := flag.Int("requests", 8, "number of requests")
	totalTime := flag.Int("total-time", 50, "time budget per run")
	outputDir := flag.String("output", "testdata", "output directory")
	scalingMode := flag.Bool("scaling", false, "generate a scaling sweep (2, 4, 8, 16, 32 robots) instead of a single instance")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "geninstances: creating output directory: %v\n", err)
		os.Exit(1)
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)

	var instances []*Instance
	if *scalingMode {
		for _, robots := range []int{2, 4, 8, 16, 32} {
			xs := robots
			if xs < 10 {
				xs = 10
			}
			instances = append(instances, generateInstance(*seed, xs, xs, robots, robots*2, *totalTime, generatedAt))
		}
	} else {
		instances = append(instances, generateInstance(*seed, *xSize, *ySize, *nrRobots, *nrRequests, *totalTime, generatedAt))
	}

	for _, inst := range instances {
		filename := filepath.Join(*outputDir, inst.Name+".json")
		data, err := json.MarshalIndent(inst, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "geninstances: marshaling %s: %v\n", inst.Name, err)
			continue
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "geninstances: writing %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("generated: %s (%d robots, %d requests, %dx%d plan)\n",
			filename, inst.NrRobots, inst.NrRequests, inst.XSize, inst.YSize)
	}
}
