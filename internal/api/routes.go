package api

import (
	"github.com/gorilla/mux"
)

func SetupRoutes(router *mux.Router, handlers *Handlers) {
	// API version prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Dataset management endpoints
	datasets := api.PathPrefix("/datasets").Subrouter()
	datasets.HandleFunc("", handlers.ListDatasets).Methods("GET")
	datasets.HandleFunc("", handlers.UploadDataset).Methods("POST")
	datasets.HandleFunc("/{datasetId}", handlers.GetDataset).Methods("GET")
	datasets.HandleFunc("/{datasetId}", handlers.DeleteDataset).Methods("DELETE")

	// Influence computation jobs
	jobs := datasets.PathPrefix("/{datasetId}/jobs").Subrouter()
	jobs.HandleFunc("", handlers.StartJob).Methods("POST")
	jobs.HandleFunc("", handlers.ListJobs).Methods("GET")

	// Baseline heuristics (synchronous)
	datasets.HandleFunc("/{datasetId}/baselines", handlers.GetBaseline).Methods("GET")

	// Job management endpoints
	jobResources := api.PathPrefix("/jobs").Subrouter()
	jobResources.HandleFunc("/{jobId}", handlers.GetJob).Methods("GET")
	jobResources.HandleFunc("/{jobId}/cancel", handlers.CancelJob).Methods("POST")

	// Service info endpoints
	api.HandleFunc("/operations", handlers.ListOperations).Methods("GET")
	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
