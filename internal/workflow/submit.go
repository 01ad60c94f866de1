package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/accreditrack/internal/auth"
	"github.com/jonathan/accreditrack/internal/metrics"
	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
)

const pdfMediaType = "application/pdf"

// Upload is a file received for a submission.
type Upload struct {
	Filename    string
	ContentType string
	// Size is the declared length, or -1 when unknown.
	Size   int64
	Reader io.Reader
}

// SubmitTask stores the uploaded PDF as a new artifact and marks the task
// submitted. Nothing is written unless the upload passes every check, and
// the task is left untouched if storing the file or its record fails.
func (s *Service) SubmitTask(ctx context.Context, p types.Principal, id int64, up Upload) (*types.SubmissionResult, error) {
	if err := auth.RequireRole(p, types.RoleFaculty); err != nil {
		return nil, err
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.AssignedUserID != p.UserID {
		return nil, &types.ErrAuth{Kind: types.AuthForbidden, Message: "task is not assigned to you"}
	}
	if s.cfg.StrictResubmission && task.Status == types.TaskApproved {
		return nil, &types.ErrInvalidState{TaskID: id, Status: task.Status, Action: "submit"}
	}

	content, err := s.readUpload(up)
	if err != nil {
		metrics.RecordSubmission(metrics.SubmissionRejected, 0)
		return nil, err
	}

	stored, err := s.files.Save(ctx, up.Filename, bytes.NewReader(content))
	if err != nil {
		metrics.RecordSubmission(metrics.SubmissionFailed, 0)
		return nil, &types.ErrStorage{Op: "write artifact file", Err: err}
	}

	artifact, updated, err := s.record(ctx, store.NewArtifact{
		TaskID:       id,
		FileName:     stored.Name,
		OriginalName: up.Filename,
		FilePath:     stored.Path,
		FileSize:     stored.Size,
	}, store.TaskUpdate{
		Status:     store.Ptr(types.TaskSubmitted),
		UploadedAt: store.Ptr(s.now().UTC()),
	})
	if err != nil {
		if rmErr := s.files.Remove(ctx, stored.Path); rmErr != nil {
			s.log.Error().Err(rmErr).Str("path", stored.Path).Msg("failed to remove orphaned artifact file")
		}
		metrics.RecordSubmission(metrics.SubmissionFailed, 0)
		return nil, err
	}

	metrics.RecordSubmission(metrics.SubmissionAccepted, stored.Size)
	s.log.Info().
		Int64("task_id", id).
		Int64("artifact_id", artifact.ID).
		Int64("size", stored.Size).
		Str("submitted_by", p.UserID).
		Msg("task submitted")

	return &types.SubmissionResult{Task: updated, Artifact: artifact}, nil
}

// record stores the artifact and marks the task submitted. Stores that
// implement store.SubmissionStore do both atomically; otherwise the task
// update follows the artifact record, and a failed update leaves that
// record behind, which is logged.
func (s *Service) record(ctx context.Context, in store.NewArtifact, update store.TaskUpdate) (*types.Artifact, *types.Task, error) {
	if tx, ok := s.artifacts.(store.SubmissionStore); ok {
		artifact, task, err := tx.RecordSubmission(ctx, in, update)
		if err != nil {
			return nil, nil, &types.ErrStorage{Op: "record submission", Err: err}
		}
		return artifact, task, nil
	}

	artifact, err := s.artifacts.CreateArtifact(ctx, in)
	if err != nil {
		return nil, nil, &types.ErrStorage{Op: "record artifact", Err: err}
	}

	task, err := s.tasks.UpdateTask(ctx, in.TaskID, update)
	if err != nil {
		s.log.Error().
			Err(err).
			Int64("task_id", in.TaskID).
			Int64("artifact_id", artifact.ID).
			Msg("task update failed after artifact was recorded")
		return nil, nil, &types.ErrStorage{Op: "update task", Err: err}
	}
	return artifact, task, nil
}

// readUpload checks presence, declared type and size, then reads the body
// and confirms it is a PDF.
func (s *Service) readUpload(up Upload) ([]byte, error) {
	if up.Reader == nil || up.Filename == "" {
		return nil, &types.ErrValidation{Field: "file", Message: "a PDF file is required"}
	}

	mediaType, _, err := mime.ParseMediaType(up.ContentType)
	if err != nil || mediaType != pdfMediaType {
		return nil, &types.ErrValidation{Field: "file", Message: "only PDF files are allowed"}
	}

	limit := s.cfg.MaxUploadBytes
	if up.Size > limit {
		return nil, s.tooLarge()
	}

	content, err := io.ReadAll(io.LimitReader(up.Reader, limit+1))
	if err != nil {
		return nil, &types.ErrValidation{Field: "file", Message: fmt.Sprintf("failed to read upload: %v", err)}
	}
	if int64(len(content)) > limit {
		return nil, s.tooLarge()
	}
	if len(content) == 0 {
		return nil, &types.ErrValidation{Field: "file", Message: "file is empty"}
	}
	if !mimetype.Detect(content).Is(pdfMediaType) {
		return nil, &types.ErrValidation{Field: "file", Message: "only PDF files are allowed"}
	}

	return content, nil
}

func (s *Service) tooLarge() error {
	return &types.ErrValidation{
		Field:   "file",
		Message: fmt.Sprintf("file exceeds the %s size limit", formatBytes(s.cfg.MaxUploadBytes)),
	}
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	return fmt.Sprintf("%d byte", n)
}
