// Command inspectglb prints a model's node hierarchy, joints, and clips,
// then runs normalization with default parameters and shows the pose.
package main

import (
	"flag"
	"fmt"
	"os"

	"champ-model-viewer/internal/gltf"
	"champ-model-viewer/internal/normalize"
	"champ-model-viewer/internal/patterns"
)

func main() {
	verbose := flag.Bool("v", false, "Print every node, not just joints")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspectglb [-v] model.glb ...")
		os.Exit(1)
	}

	tables := patterns.Default()

	for _, arg := range flag.Args() {
		m, err := gltf.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s (nodes=%d joints=%d clips=%d) ===\n",
			arg, len(m.Nodes), len(m.Joints), len(m.Clips))

		if m.HasBounds {
			fmt.Printf("bounds: min=(%.3f %.3f %.3f) max=(%.3f %.3f %.3f)\n",
				m.BoundsMin[0], m.BoundsMin[1], m.BoundsMin[2],
				m.BoundsMax[0], m.BoundsMax[1], m.BoundsMax[2])
		}

		if *verbose {
			for i, n := range m.Nodes {
				fmt.Printf("  node %3d parent=%3d %s\n", i, n.Parent, n.Name)
			}
		} else {
			for _, ji := range m.Joints {
				if ji >= 0 && ji < len(m.Nodes) {
					fmt.Printf("  joint %3d %s\n", ji, m.Nodes[ji].Name)
				}
			}
		}

		for _, name := range m.ClipNames() {
			fmt.Printf("  clip %s\n", name)
		}

		pose := normalize.Normalize(m, normalize.Params{Tables: tables})
		fmt.Printf("pose: scale=%.4f groundY=%.3f center=(%.3f, %.3f) idle=%q\n",
			pose.Scale, pose.GroundOffsetY, pose.CenterOffsetX, pose.CenterOffsetZ, pose.IdleClip)
	}
}
