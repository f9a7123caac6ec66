package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/p4zaa/influence-service/internal/models"
	"github.com/p4zaa/influence-service/internal/service"
	"github.com/p4zaa/influence-service/internal/utils"
	"github.com/p4zaa/influence-service/pkg/influence"
)

// Handlers contains HTTP request handlers
type Handlers struct {
	datasetService *service.DatasetService
	jobService     *service.JobService
	maxUploadSize  int64
}

// NewHandlers creates new API handlers
func NewHandlers(datasetService *service.DatasetService, jobService *service.JobService, maxUploadSize int64) *Handlers {
	return &Handlers{
		datasetService: datasetService,
		jobService:     jobService,
		maxUploadSize:  maxUploadSize,
	}
}

// UploadDataset handles edge-list dataset upload
func (h *Handlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Error().Err(err).Msg("Failed to parse multipart form")
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = "Unnamed Dataset"
	}

	file, header, err := r.FormFile("graphFile")
	if err != nil {
		log.Error().Err(err).Msg("Missing graph file")
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required file: graphFile", err)
		return
	}
	defer file.Close()

	dataset, err := h.datasetService.Create(name, file, header.Size)
	if err != nil {
		log.Error().Err(err).Msg("Dataset upload failed")
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Dataset upload failed", err)
		return
	}

	response := models.UploadResponse{
		DatasetID: dataset.ID,
		Dataset:   *dataset,
	}
	utils.WriteSuccessResponse(w, "Dataset uploaded successfully", response)
}

// ListDatasets lists all datasets
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.datasetService.List()
	utils.WriteSuccessResponse(w, "Datasets retrieved successfully", datasets)
}

// GetDataset retrieves a specific dataset
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	dataset, err := h.datasetService.Get(datasetID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	utils.WriteSuccessResponse(w, "Dataset retrieved successfully", dataset)
}

// DeleteDataset deletes a dataset
func (h *Handlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	if err := h.datasetService.Delete(datasetID); err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	utils.WriteSuccessResponse(w, "Dataset deleted successfully", nil)
}

// StartJob submits an influence computation job for a dataset
func (h *Handlers) StartJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	var request models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.jobService.Submit(datasetID, request.Operation, request.Parameters)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to submit job", err)
		return
	}

	utils.WriteSuccessResponse(w, "Job submitted successfully", job)
}

// ListJobs lists jobs for a dataset
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	if _, err := h.datasetService.Get(datasetID); err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	jobs := h.jobService.List(datasetID)
	utils.WriteSuccessResponse(w, "Jobs retrieved successfully", jobs)
}

// GetJob retrieves a job with its status and result
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobId"]

	job, err := h.jobService.Get(jobID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Job not found", err)
		return
	}

	utils.WriteSuccessResponse(w, "Job retrieved successfully", job)
}

// CancelJob cancels a queued or running job
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobId"]

	if err := h.jobService.Cancel(jobID); err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Job not found", err)
		return
	}

	utils.WriteSuccessResponse(w, "Job cancelled successfully", nil)
}

// GetBaseline runs a heuristic seed selection synchronously
func (h *Handlers) GetBaseline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	g, err := h.datasetService.GetGraph(datasetID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	k := 1
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid k parameter", err)
			return
		}
		k = parsed
	}

	method := r.URL.Query().Get("method")
	var seeds []string
	switch method {
	case "degree", "":
		method = "degree"
		seeds = influence.SelectTopDegree(g, k)
	case "pagerank":
		seeds, err = influence.SelectPageRank(g, k, nil)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "PageRank computation failed", err)
			return
		}
	default:
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Unknown baseline method: "+method, nil)
		return
	}

	result := models.BaselineResult{
		Method: method,
		K:      k,
		Seeds:  seeds,
	}
	utils.WriteSuccessResponse(w, "Baseline seeds computed successfully", result)
}

// ListOperations lists the available job operations
func (h *Handlers) ListOperations(w http.ResponseWriter, r *http.Request) {
	operations := []models.OperationType{
		models.OperationSimulate,
		models.OperationEstimate,
		models.OperationCELF,
	}
	utils.WriteSuccessResponse(w, "Operations retrieved successfully", operations)
}

// HealthCheck reports service health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, "Service healthy", map[string]string{"status": "ok"})
}
