package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Faultbox/urdf-viewer/internal/config"
	"github.com/Faultbox/urdf-viewer/internal/engine/debug"
	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/internal/stream"
	"github.com/Faultbox/urdf-viewer/internal/timeutil"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

func cmdTrace(args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	rf := addRobotFlags(fs)
	replay := fs.String("replay", "", "Replay file with {t_ms, values} frames (required)")
	links := fs.String("links", "", "Comma-separated links to trace (default: detected end effector)")
	lifetime := fs.Duration("lifetime", trajectory.DefaultLifetime, "Trail lifetime")
	interval := fs.Duration("interval", trajectory.DefaultInterval, "Sampling interval")
	plotPath := fs.String("plot", "", "Write the trails to an image (.png, .svg, .pdf)")
	plane := fs.String("plane", "xy", "Projection plane for -plot (xy, xz, yz)")
	fs.Parse(args)

	if fs.NArg() < 1 || *replay == "" {
		fmt.Fprintln(os.Stderr, "Usage: urdftool trace -replay <frames.yaml> [options] <file.urdf>")
		os.Exit(1)
	}
	projection, err := debug.ParsePlane(*plane)
	if err != nil {
		fatalf("%v", err)
	}

	r := rf.robot(fs.Arg(0))
	clock := timeutil.RealClock{}

	src, err := stream.LoadReplay(*replay, clock)
	if err != nil {
		fatalf("%v", err)
	}

	tracker := trajectory.NewTracker(*lifetime, *interval)
	for _, link := range traceLinks(r.Model, *links) {
		tracker.Add(trajectory.EndEffector{
			Link:    link,
			Color:   trajectory.PickColor(len(tracker.Links()), ""),
			Enabled: true,
		})
	}
	if len(tracker.Links()) == 0 {
		fatalf("no link to trace")
	}

	bindings, err := stream.NewBindings(config.StreamConfig{Degrees: *rf.deg}, r.Model)
	if err != nil {
		fatalf("%v", err)
	}
	sampler := stream.NewSamplerFor(r, tracker, clock, *interval)
	applier := stream.NewApplier(r, bindings, sampler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Playing %d frames (%v)...\n", src.Len(), src.Duration())
	if err := applier.Play(ctx, src); err != nil && ctx.Err() == nil {
		fatalf("%v", err)
	}
	now := sampler.Now()

	stats := applier.Stats()
	fmt.Printf("Frames:  %d (%d joint changes)\n", stats.Frames, stats.Changes)
	fmt.Printf("Samples: %d\n", stats.Samples)
	for _, tr := range tracker.Tracks() {
		pts := tr.Buffer.Points(now)
		fmt.Printf("\n%s (%s, %d points)\n", tr.Name, trajectory.Hex(tr.Buffer.Color), len(pts))
		for _, p := range pts {
			fmt.Printf("  %8s %s\n", p.Time.Round(time.Millisecond), formatVec(p.Position))
		}
	}

	if *plotPath != "" {
		tp := debug.NewTrailPlot(r.Model.Name+" trails", projection)
		if err := tp.Save(tracker.Tracks(), now, *plotPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Fprintf(os.Stderr, "\nWrote %s\n", *plotPath)
	}
}

func traceLinks(m *urdf.Model, list string) []string {
	if strings.TrimSpace(list) == "" {
		if ee := kinematics.DetectEndEffector(m); ee != "" {
			return []string{ee}
		}
		return nil
	}
	var out []string
	for _, l := range strings.Split(list, ",") {
		l = strings.TrimSpace(l)
		if m.LinkID(l) == urdf.NoLink {
			fatalf("unknown link %q", l)
		}
		out = append(out, l)
	}
	return out
}
