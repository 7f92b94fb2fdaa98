package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/config"
	"github.com/o0olele/navmesh-go/store"
)

type buildFlags struct {
	obj              string
	grid             string
	cellSize         float32
	out              string
	storeName        string
	precision        int
	allowNonManifold bool
	gzip             bool
}

func BuildCmd() *cobra.Command {
	var flags buildFlags
	c := &cobra.Command{
		Use:   "build",
		Short: "bake a navmesh from an OBJ file or a generated grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, &flags)
		},
	}
	c.Flags().StringVar(&flags.obj, "obj", "", "wavefront OBJ input")
	c.Flags().StringVar(&flags.grid, "grid", "", "generate a COLSxROWS grid instead of reading a file")
	c.Flags().Float32Var(&flags.cellSize, "cell", 1, "grid cell size")
	c.Flags().StringVarP(&flags.out, "out", "o", "", "output file, .msgpack selects the msgpack codec")
	c.Flags().StringVar(&flags.storeName, "store", "", "also save the mesh in the configured store under this name")
	c.Flags().IntVar(&flags.precision, "precision", 0, "welding precision in decimal digits (config when 0)")
	c.Flags().BoolVar(&flags.allowNonManifold, "allow-non-manifold", false, "skip edges shared by more than two triangles")
	c.Flags().BoolVar(&flags.gzip, "gzip", true, "gzip the binary format")
	return c
}

func parseGrid(value string) (int, int, error) {
	var cols, rows int
	if _, err := fmt.Sscanf(strings.ToLower(value), "%dx%d", &cols, &rows); err != nil || cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid grid %q, want COLSxROWS", value)
	}
	return cols, rows, nil
}

func loadInput(flags *buildFlags) ([]float32, []uint32, error) {
	switch {
	case flags.obj != "" && flags.grid != "":
		return nil, nil, fmt.Errorf("--obj and --grid are exclusive")
	case flags.obj != "":
		return builder.LoadOBJFile(flags.obj)
	case flags.grid != "":
		cols, rows, err := parseGrid(flags.grid)
		if err != nil {
			return nil, nil, err
		}
		vertices, indices := builder.GenerateGrid(cols, rows, flags.cellSize, nil)
		return vertices, indices, nil
	default:
		return nil, nil, fmt.Errorf("one of --obj or --grid is required")
	}
}

func runBuild(cmd *cobra.Command, flags *buildFlags) error {
	vertices, indices, err := loadInput(flags)
	if err != nil {
		return err
	}

	settings := config.GetConfig().BuildSettings()
	if flags.precision > 0 {
		settings.Precision = flags.precision
	}
	settings.AllowNonManifold = settings.AllowNonManifold || flags.allowNonManifold

	nb := builder.NewBuilder(settings)
	navMesh, err := nb.Build(vertices, indices)
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" && flags.storeName == "" {
		out = "navmesh.nav"
		if flags.obj != "" {
			out = strings.TrimSuffix(filepath.Base(flags.obj), filepath.Ext(flags.obj)) + ".nav"
		}
	}
	if out != "" {
		options := builder.SaveOptions{Gzip: flags.gzip && config.GetConfig().Build.Gzip}
		if err := builder.SaveWithOptions(navMesh, out, options); err != nil {
			return err
		}
	}
	if flags.storeName != "" {
		s, err := store.Open(config.GetConfig().Store.Url)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveMesh(flags.storeName, navMesh); err != nil {
			return err
		}
	}

	stats := navMesh.GetStats()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "vertices %d, polygons %d, islands %d, portals %d\n",
		stats.VertexCount, stats.PolygonCount, stats.IslandCount, stats.PortalCount)
	if r := stats.Report; r.DroppedTriangles() > 0 || r.NonManifoldEdges > 0 {
		fmt.Fprintf(w, "dropped triangles %d, non-manifold edges %d\n", r.DroppedTriangles(), r.NonManifoldEdges)
	}
	if out != "" {
		fmt.Fprintf(w, "saved %s\n", out)
	}
	if mem := nb.GetMemoryUsage(); mem.HeapAlloc > 0 {
		fmt.Fprintf(w, "heap %d KiB\n", mem.HeapAlloc/1024)
	}
	return nil
}

// InfoCmd prints the header of a baked file
func InfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "show a baked navmesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := builder.GetFileInfo(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: version %d, %d bytes, vertices %d, polygons %d, islands %d, bounds %v %v\n",
				info.Filename, info.Version, info.FileSize, info.VertexCount, info.PolygonCount, info.IslandCount,
				info.Bounds.Min, info.Bounds.Max)
			return nil
		},
	}
}
