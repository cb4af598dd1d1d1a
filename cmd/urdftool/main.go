// urdftool is a CLI utility for inspecting robot description (URDF) files.
package main

import (
	"flag"
	"fmt"
	gomath "math"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/urdf-viewer/internal/config"
	"github.com/Faultbox/urdf-viewer/internal/engine/camera"
	"github.com/Faultbox/urdf-viewer/internal/engine/debug"
	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/scene"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/internal/stream"
	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	level := "warn"
	if os.Getenv("URDFTOOL_DEBUG") != "" {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "joints", "j":
		cmdJoints(args)
	case "fk":
		cmdFK(args)
	case "bbox":
		cmdBBox(args)
	case "scene":
		cmdScene(args)
	case "trace":
		cmdTrace(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`urdftool - robot description (URDF) utility

Usage:
  urdftool <command> [options] <file.urdf>

Commands:
  info <file.urdf>             Show model summary, topology and warnings
  joints <file.urdf>           List joints with types and limits
  fk [-set j=v,...] <file>     Print world positions of every link
  bbox [-set j=v,...] <file>   Print the bounding box and camera framing
  scene [-colored] <file>      List draw items and missing meshes
  trace -replay f.yaml <file>  Play a joint stream and record trails
  watch <file.urdf>            Re-parse the file whenever it changes

Robot options (fk, bbox, scene, trace):
  -set j=v,...   Joint values
  -deg           Rotary values are in degrees
  -zup           Rotate so +Z points up
  -autoscale     Scale to the default target size

Set URDFTOOL_DEBUG=1 for debug logging.

Examples:
  urdftool info robot.urdf
  urdftool fk -deg -set shoulder=45,elbow=-30 robot.urdf
  urdftool trace -replay moves.yaml -plot trail.png robot.urdf`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadModel(path string) *urdf.Model {
	m, err := urdf.ParseFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	return m
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool info <file.urdf>")
		os.Exit(1)
	}
	m := loadModel(args[0])
	topo := m.Topology()

	fmt.Printf("Robot:   %s\n", m.Name)
	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Root:    %s\n", m.RootName())
	fmt.Printf("Links:   %d\n", len(m.Links))
	fmt.Printf("Joints:  %d (%d movable)\n", len(m.Joints), len(m.MovableJoints()))
	if ee := kinematics.DetectEndEffector(m); ee != "" {
		fmt.Printf("End eff: %s\n", ee)
	}
	fmt.Printf("Tree:    %v\n", topo.Tree())

	// Count by joint type
	byType := make(map[string]int)
	for _, j := range m.Joints {
		byType[j.Type.String()]++
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	fmt.Println()
	fmt.Println("Joints by type:")
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, byType[t])
	}

	if len(topo.Order) > 0 {
		fmt.Println()
		fmt.Printf("Order:   %s\n", strings.Join(topo.Order, " "))
	}

	if len(m.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("Warnings (%d):\n", len(m.Warnings))
		for _, w := range m.Warnings {
			fmt.Printf("  %-22s %s\n", w.Kind, w.Msg)
		}
	}
}

func cmdJoints(args []string) {
	fs := flag.NewFlagSet("joints", flag.ExitOnError)
	movable := fs.Bool("m", false, "Only movable joints")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool joints [-m] <file.urdf>")
		os.Exit(1)
	}
	m := loadModel(fs.Arg(0))

	fmt.Printf("%-20s %-10s %-16s %-16s %-18s %s\n", "NAME", "TYPE", "PARENT", "CHILD", "AXIS", "LIMITS")
	for _, j := range m.Joints {
		if *movable && !j.Type.Movable() {
			continue
		}
		fmt.Printf("%-20s %-10s %-16s %-16s %-18s %s\n",
			j.Name, j.Type, j.Parent, j.Child, formatTriple(j.Axis), formatLimits(&j))
	}
}

func formatTriple(v [3]float64) string {
	return fmt.Sprintf("%g %g %g", v[0], v[1], v[2])
}

func formatLimits(j *urdf.Joint) string {
	switch j.Type {
	case urdf.JointRevolute:
		return fmt.Sprintf("[%.1f°, %.1f°]", toDegrees(j.Limits.Lower), toDegrees(j.Limits.Upper))
	case urdf.JointPrismatic:
		return fmt.Sprintf("[%.4g m, %.4g m]", j.Limits.Lower, j.Limits.Upper)
	case urdf.JointContinuous:
		return "unbounded"
	default:
		return "-"
	}
}

func toDegrees(rad float64) float64 { return rad * 180 / gomath.Pi }

// robotFlags are the options shared by commands that pose a robot.
type robotFlags struct {
	set       *string
	deg       *bool
	zUp       *bool
	autoScale *bool
}

func addRobotFlags(fs *flag.FlagSet) *robotFlags {
	return &robotFlags{
		set:       fs.String("set", "", "Joint values, e.g. shoulder=0.5,elbow=-1"),
		deg:       fs.Bool("deg", false, "Rotary joint values are in degrees"),
		zUp:       fs.Bool("zup", false, "Rotate the scene so +Z points up"),
		autoScale: fs.Bool("autoscale", false, "Scale to the default target size"),
	}
}

// robot loads path and applies the shared options.
func (rf *robotFlags) robot(path string) *kinematics.Robot {
	m := loadModel(path)
	r := kinematics.NewRobot(m)
	r.SetZUp(*rf.zUp)
	if *rf.autoScale {
		r.AutoScale(kinematics.DefaultTargetSize)
	}
	values, err := parseAssignments(*rf.set, m, *rf.deg)
	if err != nil {
		fatalf("%v", err)
	}
	r.SetJointValues(values)
	return r
}

// parseAssignments parses "name=value,name=value" into joint values.
func parseAssignments(s string, m *urdf.Model, degrees bool) (map[string]float64, error) {
	values, err := stream.ParseAssignments(s)
	if err != nil {
		return nil, err
	}
	for name := range values {
		if m.Joint(name) == nil {
			return nil, fmt.Errorf("unknown joint %q", name)
		}
	}
	b, err := stream.NewBindings(config.StreamConfig{Degrees: degrees}, m)
	if err != nil {
		return nil, err
	}
	return b.Resolve(values), nil
}

func formatVec(v math.Vec3) string {
	return fmt.Sprintf("%9.4f %9.4f %9.4f", v.X, v.Y, v.Z)
}

func cmdFK(args []string) {
	fs := flag.NewFlagSet("fk", flag.ExitOnError)
	rf := addRobotFlags(fs)
	link := fs.String("link", "", "Only print this link")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool fk [options] <file.urdf>")
		os.Exit(1)
	}
	r := rf.robot(fs.Arg(0))
	correction := r.Correction()

	if *link != "" {
		if r.Model.LinkID(*link) == urdf.NoLink {
			fatalf("unknown link %q", *link)
		}
		fmt.Printf("%s %s\n", *link, formatVec(r.EndEffectorPosition(*link)))
		return
	}

	fmt.Printf("%-24s %9s %9s %9s\n", "LINK", "X", "Y", "Z")
	r.Model.Walk(func(l *urdf.Link, _ *urdf.Joint) bool {
		p := correction.Mul(r.LinkWorldTransform(l.Name)).Translation()
		fmt.Printf("%-24s %s\n", l.Name, formatVec(p))
		return true
	})

	if ee := kinematics.DetectEndEffector(r.Model); ee != "" {
		fmt.Println()
		fmt.Printf("End effector %s at %s\n", ee, formatVec(r.EndEffectorPosition(ee)))
	}
}

func cmdBBox(args []string) {
	fs := flag.NewFlagSet("bbox", flag.ExitOnError)
	rf := addRobotFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool bbox [options] <file.urdf>")
		os.Exit(1)
	}
	r := rf.robot(fs.Arg(0))
	b := r.Bounds()

	fmt.Printf("Min:      %s\n", formatVec(b.Min))
	fmt.Printf("Max:      %s\n", formatVec(b.Max))
	fmt.Printf("Center:   %s\n", formatVec(b.Center()))
	fmt.Printf("Diagonal: %.4f\n", b.Size())
	fmt.Printf("Scale:    %.4f (fit to %.1f: %.4f)\n", r.Scale(), kinematics.DefaultTargetSize,
		kinematics.FitScale(kinematics.BoundingBox(r.Model), kinematics.DefaultTargetSize))

	cam := camera.NewOrbitCamera()
	cam.FitToBounds(b)
	fmt.Println()
	fmt.Printf("Camera:   distance %.3f, looking at %s\n", cam.Distance, formatVec(cam.Center))
	fmt.Printf("Eye:      %s\n", formatVec(cam.Position()))
}

func cmdScene(args []string) {
	fs := flag.NewFlagSet("scene", flag.ExitOnError)
	rf := addRobotFlags(fs)
	colored := fs.Bool("colored", false, "Use the per-link palette")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool scene [options] <file.urdf>")
		os.Exit(1)
	}
	r := rf.robot(fs.Arg(0))

	items, err := scene.Build(r, scene.StatLoader{}, scene.Options{Colored: *colored})
	for _, it := range items {
		target := it.Geometry.Kind.String()
		if it.MeshPath != "" {
			target = it.MeshPath
		}
		fmt.Printf("%-24s #%d  %s  rgba(%.2f %.2f %.2f %.2f)  %s\n",
			it.Link, it.Visual, formatVec(it.World.Translation()),
			it.Color[0], it.Color[1], it.Color[2], it.Color[3], target)
	}
	ov := debug.BuildOverlay(r, nil, 0)
	fmt.Fprintf(os.Stderr, "\n(%d draw items, overlay: %d bbox + %d axis + %d grid vertices)\n",
		len(items), len(ov.BBox)/3, len(ov.Axes), len(ov.Grid))
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nSkipped visuals:\n%v\n", err)
		os.Exit(2)
	}
}
