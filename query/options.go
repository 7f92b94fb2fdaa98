package query

import "github.com/o0olele/navmesh-go/math32"

// PathPreferences 路径偏好配置
type PathPreferences struct {
	MaxIterations     int     `json:"max_iterations"`     // A* 最大迭代次数，0 表示不限
	FoldTolerance     float32 `json:"fold_tolerance"`     // 折痕判定角度（弧度）
	LinearHeuristic   bool    `json:"linear_heuristic"`   // 使用到终点的直线距离作为启发值
	SimplifyTolerance float32 `json:"simplify_tolerance"` // 共线点剔除距离，0 表示关闭
}

// DefaultPathPreferences 返回默认的路径偏好配置
func DefaultPathPreferences() *PathPreferences {
	return &PathPreferences{
		MaxIterations:     0,
		FoldTolerance:     1e-3,
		LinearHeuristic:   false,
		SimplifyTolerance: 1e-4,
	}
}

// GetPathPreferences returns the preferences in use
func (nq *NavigationQuery) GetPathPreferences() *PathPreferences {
	return nq.pathPreferences
}

// SetPathPreferences replaces the preferences. It must not race with running queries.
func (nq *NavigationQuery) SetPathPreferences(prefs *PathPreferences) {
	if prefs == nil {
		prefs = DefaultPathPreferences()
	}
	nq.pathPreferences = prefs
	nq.foldCos = math32.Cos(prefs.FoldTolerance)
}

// FindPathOptions tunes a single FindPath call. The zero value searches the
// island closest to start with the default distance functions.
type FindPathOptions struct {
	// Island restricts the search to one island; nil picks the island closest to start.
	Island *int
	// AllowedDistance rejects start or target farther than this from the mesh when > 0.
	AllowedDistance float32
	// DistanceToClosest resolves the start polygon, DistanceToTriangle when nil.
	DistanceToClosest DistanceFunc
	// DistanceToFarthest resolves the target polygon, DistanceToFootprint when nil.
	DistanceToFarthest DistanceFunc
	// DoNotPullString returns the centroids of the corridor instead of a taut path.
	DoNotPullString bool
	// ReturnNormals fills Path.Normals.
	ReturnNormals bool
}

// InIsland is a helper for FindPathOptions.Island
func InIsland(island int) *int {
	return &island
}
