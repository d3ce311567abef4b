package middleware

import (
	"net/http"
	"strconv"

	"github.com/goktugoner23/allinone-external-sub002/internal/handlers"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var QueryHandler = Wrap(handlers.QueryHandler)
var AddDocumentHandler = Wrap(handlers.AddDocumentHandler)
var UpdateDocumentHandler = Wrap(handlers.UpdateDocumentHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var GetJobStatusHandler = Wrap(handlers.GetJobStatusHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// Wrap runs the shared request chain (trace injection, auth, rate limit) and
// records the response status for prometheus.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}

	return re
}
