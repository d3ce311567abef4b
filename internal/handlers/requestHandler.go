package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/adapter"
	"github.com/goktugoner23/allinone-external-sub002/internal/adapter/utils"
	"github.com/goktugoner23/allinone-external-sub002/internal/api"
	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// QueryHandler godoc
// @Summary      Ask the knowledge base a question
// @Description  Runs the full retrieval pipeline synchronously and returns the answer with its supporting sources.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Question and optional domain hint"
// @Success      200      {object}  api.QueryResponse  "Answer with sources and confidence"
// @Failure      400      {object}  api.JobResponse    "Invalid request"
// @Failure      500      {object}  api.JobResponse    "Pipeline failure"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Query == "" {
		logRH.Warn("Bad query request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}
	if requestData.Domain != "" && !ragModel.IsValidDomain(requestData.Domain) {
		WriteErrorResponse(w, http.StatusBadRequest, "", fmt.Sprintf("unknown domain %q", requestData.Domain))
		return
	}

	response, err := handlerInstance.rag.Query(r.Context(), requestData.Query, ragModel.KnowledgeDomain(requestData.Domain))
	if err != nil {
		logRH.Error("query pipeline failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "query processing failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(response))
}

// AddDocumentHandler godoc
// @Summary      Ingest a document
// @Description  Queues a background ingestion job for the document body and returns a job id to poll.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.AddDocumentRequest  true  "Document id, content and metadata"
// @Success      202      {object}  api.InitJobResponse     "Job successfully created"
// @Failure      400      {object}  api.JobResponse         "Invalid request data"
// @Router       /documents [post]
func AddDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.AddDocumentRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "malformed request body")
		return
	}
	if requestData.Id == "" || requestData.Content == "" || !ragModel.IsValidDomain(requestData.Domain) {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.Id, "id, content and a known domain are required")
		return
	}

	jobId := enqueueIngestionJob(jobModel.JobTypeIngest,
		jobModel.JobPayload{Document: adapter.ToDocument(requestData)},
		traceIdOf(r))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
}

// UpdateDocumentHandler godoc
// @Summary      Replace a document
// @Description  Queues a job that removes the document's old vectors and re-ingests the new content.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Document ID"
// @Param        request  body      api.UpdateDocumentRequest  true  "New content and metadata"
// @Success      202      {object}  api.InitJobResponse        "Job successfully created"
// @Failure      400      {object}  api.JobResponse            "Invalid request data"
// @Router       /documents/{id} [put]
func UpdateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	var requestData api.UpdateDocumentRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || id == "" {
		WriteErrorResponse(w, http.StatusBadRequest, id, "malformed request")
		return
	}
	if requestData.Content == "" || !ragModel.IsValidDomain(requestData.Domain) {
		WriteErrorResponse(w, http.StatusBadRequest, id, "content and a known domain are required")
		return
	}

	jobId := enqueueIngestionJob(jobModel.JobTypeUpdate,
		jobModel.JobPayload{Document: adapter.ToUpdatedDocument(id, requestData)},
		traceIdOf(r))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
}

// DeleteDocumentHandler godoc
// @Summary      Remove a document
// @Description  Deletes all of the document's vectors and its registry record. Runs synchronously.
// @Tags         Documents
// @Produce      json
// @Param        id      path   string  true   "Document ID"
// @Param        domain  query  string  false  "Domain the document lives in; looked up when omitted"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  api.JobResponse  "Removal failed"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if id == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document id is required")
		return
	}
	domain := r.URL.Query().Get("domain")
	if domain != "" && !ragModel.IsValidDomain(domain) {
		WriteErrorResponse(w, http.StatusBadRequest, id, fmt.Sprintf("unknown domain %q", domain))
		return
	}

	if err := handlerInstance.rag.RemoveDocument(r.Context(), id, ragModel.KnowledgeDomain(domain)); err != nil {
		logRH.Error("document removal failed", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "removal failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Failure      500  {object}  api.JobResponse  "Registry unavailable"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	records, err := handlerInstance.registry.ListDocuments(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "registry unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(records))
}

// UploadDocumentHandler godoc
// @Summary      Upload a document file for ingestion
// @Description  Receives a pdf/docx/odt/rtf/txt file via multipart form, parks it on disk and queues an extraction job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_id  formData  string  true  "Id the ingested document should get"
// @Param        domain       formData  string  true  "Knowledge domain for the document"
// @Param        document     formData  file    true  "The file to ingest"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse      "Storage error"
// @Router       /documents/upload [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	documentId := r.FormValue("document_id")
	domain := r.FormValue("domain")
	if documentId == "" || !ragModel.IsValidDomain(domain) {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "document_id and a known domain are required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destination, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Storage error")
		return
	}
	defer destination.Close()

	if _, err := io.Copy(destination, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Write error")
		return
	}

	now := time.Now()
	payload := jobModel.JobPayload{
		UploadPath: tempFilePath,
		Document: ragModel.Document{
			Id: documentId,
			Metadata: ragModel.DocumentMetadata{
				Domain:      ragModel.KnowledgeDomain(domain),
				Source:      fileMetadata.Filename,
				ContentType: filepath.Ext(fileMetadata.Filename),
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
	}
	jobId := enqueueIngestionJob(jobModel.JobTypeUpload, payload, traceIdOf(r))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
}

// GetJobStatusHandler godoc
// @Summary      Get ingestion job status
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "Current job state"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /jobs/{id} [get]
func GetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceIdOf(r))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToJobResponse(result))
}

// GetStatusHandler godoc
// @Summary      Service status
// @Description  Reports readiness, health, and per-domain document counts.
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.StatusResponse
// @Router       /status [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	status := handlerInstance.rag.GetStatus(r.Context())
	writeJsonResponse(w, http.StatusOK, adapter.ToStatusResponse(status))
}

func traceIdOf(r *http.Request) string {
	if trace, ok := r.Context().Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("could not close request body", "error", err)
	}
}
