// planbench runs a planning benchmark against a synthetic arm, records
// the results to SQLite, and optionally renders the solution's
// velocity profile.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/arcline-robotics/motionplan/internal/benchdb"
	"github.com/arcline-robotics/motionplan/internal/config"
	"github.com/arcline-robotics/motionplan/internal/constraint"
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/planning"
	"github.com/arcline-robotics/motionplan/internal/scene"
	"github.com/arcline-robotics/motionplan/internal/trajectory"
	"github.com/arcline-robotics/motionplan/internal/units"
	"github.com/arcline-robotics/motionplan/internal/version"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Planner configuration YAML (optional)")
		group         = flag.String("group", "arm", "Joint group to look up in the configuration")
		plannerConfig = flag.String("planner", "", "Named planner config from the configuration file")
		timeout       = flag.Duration("timeout", 2*time.Second, "Timeout per solve attempt")
		count         = flag.Int("count", 10, "Benchmark attempts")
		parallel      = flag.Int("parallel", 1, "Planner instances for the demonstration solve")
		dbPath        = flag.String("db", "planbench.db", "SQLite database for benchmark results")
		migrationsDir = flag.String("migrations", "", "Migrations directory to apply before recording (optional)")
		plotPath      = flag.String("plot", "", "Velocity profile output path (.png or .svg, optional)")
		angleUnits    = flag.String("units", units.RAD, "Angle units for printed waypoints ("+units.GetValidUnitsString()+")")
		verbose       = flag.Bool("v", false, "Enable diagnostic logging")
		showVersion   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("planbench %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if !units.IsValid(*angleUnits) {
		fmt.Fprintf(os.Stderr, "planbench: invalid units %q (valid: %s)\n", *angleUnits, units.GetValidUnitsString())
		os.Exit(1)
	}

	ops := planning.LogWriters{Ops: os.Stderr}
	if *verbose {
		ops.Diag = os.Stderr
	}
	planning.SetLogWriters(ops)

	if err := run(*configPath, *group, *plannerConfig, *timeout, *count, *parallel,
		*dbPath, *migrationsDir, *plotPath, *angleUnits); err != nil {
		fmt.Fprintf(os.Stderr, "planbench: %v\n", err)
		os.Exit(1)
	}
}

// demoArm builds the synthetic three-joint arm the benchmark plans for.
func demoArm(groupName string) (*model.Model, *model.JointGroup, error) {
	bound := []model.VariableBound{{Min: -math.Pi, Max: math.Pi}}
	m, err := model.NewModel("bench_arm", []*model.Joint{
		{Name: "shoulder", Type: model.Revolute, ChildLink: "upper_arm", Bounds: bound},
		{Name: "elbow", Type: model.Revolute, ChildLink: "forearm", Bounds: bound},
		{Name: "wrist", Type: model.Revolute, ChildLink: "hand", Bounds: bound},
	})
	if err != nil {
		return nil, nil, err
	}
	g, err := m.AddGroup(groupName, []string{"shoulder", "elbow", "wrist"})
	if err != nil {
		return nil, nil, err
	}
	return m, g, nil
}

func run(configPath, group, plannerConfig string, timeout time.Duration,
	count, parallel int, dbPath, migrationsDir, plotPath, angleUnits string) error {

	m, g, err := demoArm(group)
	if err != nil {
		return err
	}

	ctxCfg := map[string]string{"type": "geometric.RRTConnect"}
	if configPath != "" {
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if ctxCfg, err = f.ContextConfig(group, plannerConfig); err != nil {
			return err
		}
	}

	ctx, err := planning.New("planbench", planning.Spec{
		Model:                    m,
		Group:                    g,
		Config:                   ctxCfg,
		MaxVelocity:              1.5,
		MaxAcceleration:          3,
		MaxSolutionSegmentLength: 0.05,
	})
	if err != nil {
		return err
	}
	if err := ctx.SetPlanningScene(scene.NewStatic("bench_scene", "world", m, nil)); err != nil {
		return err
	}

	goalSpec := constraint.Constraints{
		Name: "bench_goal",
		Joint: []constraint.JointConstraint{
			{JointName: "shoulder", Position: 1.2, ToleranceAbove: 0.05, ToleranceBelow: 0.05, Weight: 1},
			{JointName: "elbow", Position: -0.8, ToleranceAbove: 0.05, ToleranceBelow: 0.05, Weight: 1},
			{JointName: "wrist", Position: 0.4, ToleranceAbove: 0.05, ToleranceBelow: 0.05, Weight: 1},
		},
	}
	if err := ctx.SetPlanningConstraints([]constraint.Constraints{goalSpec}, constraint.Constraints{}); err != nil {
		return err
	}
	if err := ctx.Configure(); err != nil {
		return err
	}

	// One demonstration solve with post-processing, then the benchmark.
	if !ctx.Solve(timeout, parallel) {
		return fmt.Errorf("demonstration solve failed within %v", timeout)
	}
	ctx.SimplifySolution(timeout / 10)
	ctx.InterpolateSolution()
	traj, ok := ctx.SolutionPath()
	if !ok {
		return fmt.Errorf("no solution trajectory")
	}
	final := traj.Points[len(traj.Points)-1]
	fmt.Printf("solved in %v: %d waypoints, %v duration\n",
		ctx.LastPlanTime(), len(traj.Points), final.TimeFromStart)
	for j, name := range traj.JointNames {
		fmt.Printf("  %s: %.3f %s\n", name, units.ConvertAngle(final.Positions[j], angleUnits), angleUnits)
	}

	if plotPath != "" {
		if err := trajectory.SaveVelocityProfile(traj, plotPath); err != nil {
			return err
		}
		fmt.Printf("velocity profile written to %s\n", plotPath)
	}

	db, err := benchdb.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrationsDir != "" {
		if err := db.MigrateUp(migrationsDir); err != nil {
			return err
		}
	}

	bench, err := ctx.Benchmark(timeout, count, db)
	if err != nil {
		return err
	}
	summary, err := db.Summarize(bench.ID)
	if err != nil {
		return err
	}
	fmt.Printf("experiment %s: %d/%d succeeded (%d approximate), avg %v, avg length %.3f\n",
		bench.Experiment, summary.Successes, summary.Attempts, summary.Approximate,
		summary.AvgSolveTime, summary.AvgPathLength)
	return nil
}
