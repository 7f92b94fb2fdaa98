package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/logger"
)

var ErrMeshNotFound = errors.New("navmesh not found in store")

// MeshGorm is one baked navmesh, stored as a msgpack blob
type MeshGorm struct {
	Name      string    `gorm:"column:name;type:varchar(128);primaryKey"`
	Vertices  int32     `gorm:"column:vertices;type:int(11)"`
	Polygons  int32     `gorm:"column:polygons;type:int(11)"`
	Islands   int32     `gorm:"column:islands;type:int(11)"`
	Data      []byte    `gorm:"column:data;type:longblob"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (m MeshGorm) TableName() string {
	return "navmesh"
}

// MeshInfo is a MeshGorm row without its payload
type MeshInfo struct {
	Name      string    `json:"name"`
	Vertices  int32     `json:"vertices"`
	Polygons  int32     `json:"polygons"`
	Islands   int32     `json:"islands"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps baked navmeshes in a sql database
type Store struct {
	gormDb *gorm.DB
}

// Open connects to url. Only sqlite is supported: "sqlite://path", or a bare path.
func Open(url string) (*Store, error) {
	if strings.Contains(url, "://") && !strings.HasPrefix(url, "sqlite://") {
		err := fmt.Errorf("not support db type, url: %v", url)
		logger.Error("%v", err)
		return nil, err
	}
	dsn := strings.TrimPrefix(url, "sqlite://")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Error("gorm open error: %v", err)
		return nil, err
	}
	tableList := []any{new(MeshGorm)}
	for _, table := range tableList {
		err := db.AutoMigrate(table)
		if err != nil {
			logger.Error("auto migrate error: %v", err)
			return nil, err
		}
	}
	return &Store{gormDb: db}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDb, err := s.gormDb.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

// SaveMesh inserts or replaces the mesh stored under name
func (s *Store) SaveMesh(name string, navMesh *builder.NavMesh) error {
	data, err := builder.EncodeMsgpack(navMesh)
	if err != nil {
		return err
	}
	err = s.gormDb.Clauses(clause.OnConflict{UpdateAll: true}).Create(&MeshGorm{
		Name:      name,
		Vertices:  int32(len(navMesh.Vertices)),
		Polygons:  int32(navMesh.PolygonCount()),
		Islands:   int32(navMesh.IslandCount()),
		Data:      data,
		UpdatedAt: time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("save navmesh %v: %w", name, err)
	}
	logger.Debug("navmesh %v saved, size %v", name, len(data))
	return nil
}

// LoadMesh returns the mesh stored under name or ErrMeshNotFound
func (s *Store) LoadMesh(name string) (*builder.NavMesh, error) {
	meshGorm := new(MeshGorm)
	err := s.gormDb.Where("name = ?", name).First(meshGorm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMeshNotFound, name)
		}
		return nil, err
	}
	navMesh, err := builder.DecodeMsgpack(meshGorm.Data)
	if err != nil {
		return nil, fmt.Errorf("decode navmesh %v: %w", name, err)
	}
	return navMesh, nil
}

// ListMeshes returns every stored mesh ordered by name
func (s *Store) ListMeshes() ([]MeshInfo, error) {
	var rows []MeshGorm
	err := s.gormDb.Order("name").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	infoList := make([]MeshInfo, 0, len(rows))
	for _, row := range rows {
		infoList = append(infoList, MeshInfo{
			Name:      row.Name,
			Vertices:  row.Vertices,
			Polygons:  row.Polygons,
			Islands:   row.Islands,
			Size:      len(row.Data),
			UpdatedAt: row.UpdatedAt,
		})
	}
	return infoList, nil
}

// DeleteMesh removes name, returning ErrMeshNotFound when it is absent
func (s *Store) DeleteMesh(name string) error {
	result := s.gormDb.Where("name = ?", name).Delete(&MeshGorm{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %v", ErrMeshNotFound, name)
	}
	return nil
}
