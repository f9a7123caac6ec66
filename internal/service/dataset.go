package service

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/p4zaa/influence-service/internal/models"
	"github.com/p4zaa/influence-service/pkg/graph"
)

// DatasetService stores uploaded graphs in memory
type DatasetService struct {
	datasets map[string]*models.Dataset
	graphs   map[string]*graph.Graph
	mutex    sync.RWMutex
}

// NewDatasetService creates a new dataset service
func NewDatasetService() *DatasetService {
	return &DatasetService{
		datasets: make(map[string]*models.Dataset),
		graphs:   make(map[string]*graph.Graph),
	}
}

// Create parses an edge list and registers it as a new dataset
func (s *DatasetService) Create(name string, r io.Reader, size int64) (*models.Dataset, error) {
	g, err := graph.ParseEdgeList(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse edge list: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	datasetID := uuid.New().String()
	now := time.Now()

	dataset := &models.Dataset{
		ID:     datasetID,
		Name:   name,
		Status: models.DatasetStatusReady,
		Metadata: models.DatasetMetadata{
			NodeCount: g.NumNodes(),
			EdgeCount: g.NumEdges(),
			FileSize:  size,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.datasets[datasetID] = dataset
	s.graphs[datasetID] = g

	log.Info().
		Str("dataset_id", datasetID).
		Str("name", name).
		Int("nodes", g.NumNodes()).
		Int("edges", g.NumEdges()).
		Msg("Dataset created")

	return dataset, nil
}

// Get retrieves a dataset by ID
func (s *DatasetService) Get(datasetID string) (*models.Dataset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	dataset, exists := s.datasets[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	return dataset, nil
}

// GetGraph retrieves the parsed graph for a dataset
func (s *DatasetService) GetGraph(datasetID string) (*graph.Graph, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	g, exists := s.graphs[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	return g, nil
}

// List returns all datasets
func (s *DatasetService) List() []*models.Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	datasets := make([]*models.Dataset, 0, len(s.datasets))
	for _, dataset := range s.datasets {
		datasets = append(datasets, dataset)
	}
	return datasets
}

// Delete removes a dataset and its graph
func (s *DatasetService) Delete(datasetID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.datasets[datasetID]; !exists {
		return fmt.Errorf("dataset not found: %s", datasetID)
	}

	delete(s.datasets, datasetID)
	delete(s.graphs, datasetID)

	log.Info().Str("dataset_id", datasetID).Msg("Dataset deleted")
	return nil
}
