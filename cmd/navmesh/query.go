package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/o0olele/navmesh-go/config"
	"github.com/o0olele/navmesh-go/math32"
	"github.com/o0olele/navmesh-go/query"
	"github.com/o0olele/navmesh-go/store"
)

type queryFlags struct {
	file            string
	storeName       string
	from, to        string
	island          int
	allowedDistance float32
	noPull          bool
	normals         bool
	asJson          bool
}

func QueryCmd() *cobra.Command {
	var flags queryFlags
	c := &cobra.Command{
		Use:   "query",
		Short: "find a path on a baked navmesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, &flags)
		},
	}
	c.Flags().StringVarP(&flags.file, "file", "f", "", "baked navmesh file")
	c.Flags().StringVar(&flags.storeName, "store", "", "load the mesh from the configured store instead")
	c.Flags().StringVar(&flags.from, "from", "", "start point x,y,z")
	c.Flags().StringVar(&flags.to, "to", "", "target point x,y,z")
	c.Flags().IntVar(&flags.island, "island", -1, "restrict the search to one island")
	c.Flags().Float32Var(&flags.allowedDistance, "max-distance", 0, "reject endpoints farther than this from the mesh")
	c.Flags().BoolVar(&flags.noPull, "no-pull", false, "return corridor centroids instead of a taut path")
	c.Flags().BoolVar(&flags.normals, "normals", false, "print surface normals")
	c.Flags().BoolVar(&flags.asJson, "json", false, "print the path as json")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func parsePoint(s string) (math32.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math32.Vector3{}, fmt.Errorf("invalid point %q, want x,y,z", s)
	}
	var p [3]float32
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return math32.Vector3{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		p[i] = float32(v)
	}
	return math32.Vector3{X: p[0], Y: p[1], Z: p[2]}, nil
}

func openQuery(flags *queryFlags) (*query.NavigationQuery, error) {
	prefs := config.GetConfig().PathPreferences()
	switch {
	case flags.storeName != "":
		s, err := store.Open(config.GetConfig().Store.Url)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		navMesh, err := s.LoadMesh(flags.storeName)
		if err != nil {
			return nil, err
		}
		return query.NewNavigationQueryWithPreferences(navMesh, prefs)
	case flags.file != "":
		nq, err := query.LoadAndQuery(flags.file)
		if err != nil {
			return nil, err
		}
		nq.SetPathPreferences(prefs)
		return nq, nil
	default:
		return nil, fmt.Errorf("one of --file or --store is required")
	}
}

func runQuery(cmd *cobra.Command, flags *queryFlags) error {
	start, err := parsePoint(flags.from)
	if err != nil {
		return err
	}
	target, err := parsePoint(flags.to)
	if err != nil {
		return err
	}
	nq, err := openQuery(flags)
	if err != nil {
		return err
	}

	opts := &query.FindPathOptions{
		AllowedDistance: flags.allowedDistance,
		DoNotPullString: flags.noPull,
		ReturnNormals:   flags.normals,
	}
	if flags.island >= 0 {
		opts.Island = query.InIsland(flags.island)
	}
	path, err := nq.FindPath(start, target, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flags.asJson {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(path)
	}
	normals := path.NormalVectors()
	for i, p := range path.Points() {
		if normals != nil {
			fmt.Fprintf(w, "%v %v\n", p, normals[i])
			continue
		}
		fmt.Fprintln(w, p)
	}
	fmt.Fprintf(w, "island %d, corridor %d polygons, length %.4f\n", path.Island, len(path.Corridor), path.Length())
	return nil
}
