package adapter

import (
	"fmt"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/api"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("jobs/%s", id),
	}
}

func ToJobResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id: job.Id,
		Result: api.Result{
			Status:     string(job.Status),
			DocumentId: job.Payload.Document.Id,
		},
		Error:     errorPtr,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
	}
}

func ToQueryResponse(response ragModel.RAGResponse) api.QueryResponse {
	sources := make([]api.SourceView, len(response.Sources))
	for i, s := range response.Sources {
		sources[i] = api.SourceView{
			Id:       s.Id,
			Score:    s.Score,
			Content:  s.Content,
			Metadata: s.Metadata,
		}
	}

	return api.QueryResponse{
		Answer:           response.Answer,
		Sources:          sources,
		Confidence:       response.Confidence,
		ProcessingTimeMs: response.ProcessingTime.Milliseconds(),
		Metadata: api.QueryMetadata{
			OriginalQuery: response.Metadata.OriginalQuery,
			SemanticQuery: response.Metadata.SemanticQuery.Query,
			Domain:        string(response.Metadata.SemanticQuery.Filters.Domain),
			TotalMatches:  response.Metadata.TotalMatches,
		},
	}
}

// ToDocument maps an add request into the domain model. Timestamps are set
// here so the vector payload and the registry agree on them.
func ToDocument(request api.AddDocumentRequest) ragModel.Document {
	now := time.Now()
	return ragModel.Document{
		Id:      request.Id,
		Content: request.Content,
		Metadata: ragModel.DocumentMetadata{
			Domain:      ragModel.KnowledgeDomain(request.Domain),
			Source:      request.Source,
			ContentType: request.ContentType,
			Tags:        request.Tags,
			CreatedAt:   now,
			UpdatedAt:   now,
			Extra:       request.Extra,
		},
	}
}

func ToUpdatedDocument(id string, request api.UpdateDocumentRequest) ragModel.Document {
	return ToDocument(api.AddDocumentRequest{
		Id:          id,
		Content:     request.Content,
		Domain:      request.Domain,
		Source:      request.Source,
		ContentType: request.ContentType,
		Tags:        request.Tags,
		Extra:       request.Extra,
	})
}

func ToDocumentList(records []ragModel.DocumentRecord) api.DocumentListResponse {
	views := make([]api.DocumentView, len(records))
	for i, r := range records {
		views[i] = api.DocumentView{
			Id:          r.Id,
			Domain:      string(r.Domain),
			Source:      r.Source,
			ContentType: r.ContentType,
			ChunkCount:  r.ChunkCount,
			IngestedAt:  r.IngestedAt,
		}
	}
	return api.DocumentListResponse{Documents: views, Total: len(views)}
}

func ToStatusResponse(status ragModel.ServiceStatus) api.StatusResponse {
	return api.StatusResponse{
		IsReady:       status.IsReady,
		Health:        status.Health,
		DocumentCount: status.Stats.DocumentCount,
		DomainCounts:  status.Stats.DomainCounts,
		Namespaces:    status.Stats.Namespaces,
	}
}

func BadRequest(id string, message string, code int) api.JobResponse {
	return api.JobResponse{
		Id: id,
		Result: api.Result{
			Status: string(jobModel.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}
