package query

import (
	"fmt"

	"github.com/o0olele/navmesh-go/builder"
)

// LoadAndQuery loads a baked navmesh file and creates the queryer (one-stop)
func LoadAndQuery(filename string) (*NavigationQuery, error) {
	navMesh, err := builder.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load navmesh: %w", err)
	}

	query, err := NewNavigationQuery(navMesh)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigation query: %w", err)
	}

	return query, nil
}
