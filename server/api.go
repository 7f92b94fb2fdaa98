package server

import (
	"fmt"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/math32"
	"github.com/o0olele/navmesh-go/query"
)

// 构建请求: flat xyz vertex buffer and triangle index buffer
type BuildRequest struct {
	Vertices         []float32 `json:"vertices" jsonschema:"description=flat xyz vertex buffer"`
	Indices          []uint32  `json:"indices" jsonschema:"description=three vertex indices per triangle"`
	Precision        int       `json:"precision,omitempty" jsonschema:"minimum=0,maximum=9"`
	AllowNonManifold bool      `json:"allow_non_manifold,omitempty"`
}

// 构建响应
type BuildResponse struct {
	Name  string               `json:"name"`
	Stats builder.NavMeshStats `json:"stats"`
}

// 路径查找请求结构
type PathfindRequest struct {
	// ID is echoed back on the websocket
	ID              string         `json:"id,omitempty"`
	Mesh            string         `json:"mesh,omitempty" jsonschema:"description=mesh name, websocket only"`
	Start           math32.Vector3 `json:"start"`
	End             math32.Vector3 `json:"end"`
	Island          *int           `json:"island,omitempty"`
	AllowedDistance float32        `json:"allowed_distance,omitempty"`
	StartLookup     string         `json:"start_lookup,omitempty" jsonschema:"enum=triangle,enum=footprint,enum=centroid"`
	EndLookup       string         `json:"end_lookup,omitempty" jsonschema:"enum=triangle,enum=footprint,enum=centroid"`
	DoNotPullString bool           `json:"do_not_pull_string,omitempty"`
	ReturnNormals   bool           `json:"return_normals,omitempty"`
}

// 路径查找响应结构
type PathfindResponse struct {
	ID       string           `json:"id,omitempty"`
	Found    bool             `json:"found"`
	Path     []math32.Vector3 `json:"path"`
	Normals  []math32.Vector3 `json:"normals,omitempty"`
	Corridor []int32          `json:"corridor,omitempty"`
	Island   int              `json:"island"`
	Length   float32          `json:"length"`
	Error    string           `json:"error,omitempty"`
}

// IslandResponse answers island and nearest polygon lookups
type IslandResponse struct {
	Found    bool    `json:"found"`
	Island   int     `json:"island"`
	Polygon  int32   `json:"polygon"`
	Distance float32 `json:"distance,omitempty"`
}

var lookups = map[string]query.DistanceFunc{
	"triangle":  query.DistanceToTriangle,
	"footprint": query.DistanceToFootprint,
	"centroid":  query.DistanceToCentroid,
}

func lookupFunc(name string) (query.DistanceFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := lookups[name]
	if !ok {
		return nil, fmt.Errorf("unknown lookup %q", name)
	}
	return fn, nil
}

// options converts the request into FindPath options
func (req *PathfindRequest) options() (*query.FindPathOptions, error) {
	closest, err := lookupFunc(req.StartLookup)
	if err != nil {
		return nil, err
	}
	farthest, err := lookupFunc(req.EndLookup)
	if err != nil {
		return nil, err
	}
	return &query.FindPathOptions{
		Island:             req.Island,
		AllowedDistance:    req.AllowedDistance,
		DistanceToClosest:  closest,
		DistanceToFarthest: farthest,
		DoNotPullString:    req.DoNotPullString,
		ReturnNormals:      req.ReturnNormals,
	}, nil
}

// findPath runs the request against nq. A query without result is a
// response with Found false, not an error.
func findPath(nq *query.NavigationQuery, req *PathfindRequest) (*PathfindResponse, error) {
	opts, err := req.options()
	if err != nil {
		return nil, err
	}
	resp := &PathfindResponse{ID: req.ID, Island: -1}
	path, err := nq.FindPath(req.Start, req.End, opts)
	if err != nil {
		resp.Error = err.Error()
		return resp, nil
	}
	resp.Found = true
	resp.Path = path.Points()
	resp.Normals = path.NormalVectors()
	resp.Corridor = path.Corridor
	resp.Island = path.Island
	resp.Length = path.Length()
	return resp, nil
}
