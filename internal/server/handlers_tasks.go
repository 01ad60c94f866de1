package server

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/accreditrack/internal/server/middleware"
	"github.com/jonathan/accreditrack/internal/types"
	"github.com/jonathan/accreditrack/internal/workflow"
)

// multipartOverhead is allowed on top of the file limit for headers and other parts.
const multipartOverhead = 1 << 20

const uploadFieldName = "file"

// handleListTasks lists tasks, honoring assigned_user_id and cycle_id filters.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	filter := types.TaskFilter{
		AssignedUserID: strings.TrimSpace(r.URL.Query().Get("assigned_user_id")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("cycle_id")); raw != "" {
		cycleID, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, r, &types.ErrValidation{Field: "cycle_id", Message: "must be an integer"})
			return
		}
		filter.CycleID = cycleID
	}

	tasks, err := s.workflow.ListTasks(r.Context(), principal, filter)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tasks retrieved", tasks)
}

// handleCreateTask creates a task for a faculty member.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req types.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	task, err := s.workflow.CreateTask(r.Context(), principal, req)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusCreated, "Task created", task)
}

// handleGetTask returns a task with its artifacts.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	taskID, err := taskIDParam(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	detail, err := s.workflow.GetTask(r.Context(), principal, taskID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Task retrieved", detail)
}

// handleSubmitTask streams the multipart "file" part into the workflow.
func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	taskID, err := taskIDParam(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.workflow.MaxUploadBytes()+multipartOverhead)

	mr, err := multipartReader(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	// a body that is not multipart carries no file; the workflow reports
	// that after its task and ownership checks
	upload := workflow.Upload{Size: -1}
	if mr != nil {
		if upload, err = nextFilePart(mr); err != nil {
			errorResponse(w, r, err)
			return
		}
	}

	result, err := s.workflow.SubmitTask(r.Context(), principal, taskID, upload)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Task submitted", result)
}

// handleReviewTask records a review decision.
func (s *Server) handleReviewTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	taskID, err := taskIDParam(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	var req types.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	task, err := s.workflow.ReviewTask(r.Context(), principal, taskID, req)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Task reviewed", task)
}

// handleListCycles lists accreditation cycles.
func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	cycles, err := s.workflow.ListCycles(r.Context(), principal)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Cycles retrieved", cycles)
}

func taskIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "taskId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &types.ErrValidation{Field: "taskId", Message: "must be a positive integer"}
	}
	return id, nil
}

// multipartReader returns nil without error when the body is not multipart/form-data.
func multipartReader(r *http.Request) (*multipart.Reader, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, nil
	}
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, &types.ErrValidation{Field: uploadFieldName, Message: "malformed multipart body"}
	}
	return mr, nil
}

// nextFilePart advances to the "file" part. A body without one yields an
// empty Upload, which the workflow rejects after its task checks.
func nextFilePart(mr *multipart.Reader) (workflow.Upload, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return workflow.Upload{Size: -1}, nil
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return workflow.Upload{}, err
			}
			return workflow.Upload{}, &types.ErrValidation{Field: uploadFieldName, Message: "malformed multipart body"}
		}
		if part.FormName() != uploadFieldName || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		return workflow.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        -1,
			Reader:      part,
		}, nil
	}
}
