package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/infra/blob"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/policy"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
	"github.com/taskdeck-io/taskdeck/internal/pkg/utils"
	"go.uber.org/zap"
)

type CreateDocumentInput struct {
	Name        string
	Description string
	Version     string
	ProjectID   uuid.UUID
	// FileName/ContentType describe the file the client will upload through
	// the returned presigned URL. Empty means no file.
	FileName    string
	ContentType string
}

type CreateDocumentOutput struct {
	Document *model.Document `json:"document"`
	// UploadURL is a presigned PUT URL, set when a file was announced.
	UploadURL string `json:"upload_url,omitempty"`
}

type UpdateDocumentInput struct {
	Name        *string
	Description *string
	Version     *string
}

type ListDocumentsInput struct {
	ListInput
	Caller *model.Account
}

type ListDocumentsOutput struct {
	Items      []model.Document `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

type DocumentService interface {
	List(ctx context.Context, in ListDocumentsInput) (*ListDocumentsOutput, error)
	Create(ctx context.Context, caller *model.Account, in CreateDocumentInput) (*CreateDocumentOutput, error)
	Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Document, error)
	Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateDocumentInput) (*model.Document, error)
	Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error
	// DownloadURL returns a presigned GET URL for the document's file.
	DownloadURL(ctx context.Context, caller *model.Account, id uuid.UUID) (string, error)
}

type documentService struct {
	documents  repo.DocumentRepo
	projects   repo.ProjectRepo
	blob       *blob.S3Deps
	presignTTL func() time.Duration
	log        *zap.Logger
}

func NewDocumentService(documents repo.DocumentRepo, projects repo.ProjectRepo, b *blob.S3Deps, presignTTL func() time.Duration, log *zap.Logger) DocumentService {
	return &documentService{documents: documents, projects: projects, blob: b, presignTTL: presignTTL, log: log}
}

func (s *documentService) List(ctx context.Context, in ListDocumentsInput) (*ListDocumentsOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceDocument, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.documents.ListWithCursor(ctx, scope.Documents(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListDocumentsOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(d model.Document) time.Time { return d.CreatedAt },
		func(d model.Document) uuid.UUID { return d.ID })
	return out, nil
}

func (s *documentService) Create(ctx context.Context, caller *model.Account, in CreateDocumentInput) (*CreateDocumentOutput, error) {
	if in.Name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}

	project, err := s.projects.Get(ctx, in.ProjectID, scope.Unrestricted())
	if err != nil {
		return nil, apperr.ValidationField("project", "the project does not exist")
	}
	snap := policy.Snapshot{CallerIsMember: isTeamMember(project, caller)}
	if d := policy.Decide(caller.Profile, policy.ResourceDocument, policy.OpCreate, snap); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}

	exists, err := s.documents.NameExists(ctx, project.ID, in.Name, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}
	if exists {
		return nil, apperr.ValidationField("name", "a document with this name already exists in the specified project")
	}

	doc := &model.Document{
		Name:        in.Name,
		Description: in.Description,
		Version:     in.Version,
		ProjectID:   project.ID,
	}

	var uploadURL string
	if in.FileName != "" {
		key, err := utils.GenerateKey("documents/")
		if err != nil {
			return nil, apperr.Internal("generate file key", err)
		}
		if ext := strings.ToLower(filepath.Ext(in.FileName)); ext != "" {
			key += ext
		}
		doc.FileKey = key
		uploadURL, err = s.blob.PresignPut(ctx, key, in.ContentType, s.presignTTL())
		if err != nil {
			return nil, apperr.Internal("presign upload", err)
		}
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, storeErr(err, "document")
	}
	return &CreateDocumentOutput{Document: doc, UploadURL: uploadURL}, nil
}

func (s *documentService) Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Document, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceDocument, policy.OpRetrieve, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	doc, err := s.documents.Get(ctx, id, scope.Documents(caller))
	if err != nil {
		return nil, storeErr(err, "document not found")
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateDocumentInput) (*model.Document, error) {
	existing, err := s.documents.Get(ctx, id, scope.Documents(caller))
	if err != nil {
		return nil, storeErr(err, "document not found")
	}

	project, err := s.projects.Get(ctx, existing.ProjectID, scope.Unrestricted())
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}
	snap := policy.Snapshot{CallerIsMember: isTeamMember(project, caller)}
	if d := policy.Decide(caller.Profile, policy.ResourceDocument, policy.OpUpdate, snap); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.ValidationField("name", "name is required")
		}
		if *in.Name != existing.Name {
			exists, err := s.documents.NameExists(ctx, existing.ProjectID, *in.Name, existing.ID)
			if err != nil {
				return nil, apperr.Internal("storage error", err)
			}
			if exists {
				return nil, apperr.ValidationField("name", "a document with this name already exists in the specified project")
			}
		}
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Version != nil {
		fields["version"] = *in.Version
	}
	if len(fields) > 0 {
		if err := s.documents.Update(ctx, id, fields); err != nil {
			return nil, storeErr(err, "document not found")
		}
	}

	doc, err := s.documents.Get(ctx, id, scope.Documents(caller))
	if err != nil {
		return nil, storeErr(err, "document not found")
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	doc, err := s.documents.Get(ctx, id, scope.Documents(caller))
	if err != nil {
		return storeErr(err, "document not found")
	}
	if d := policy.Decide(caller.Profile, policy.ResourceDocument, policy.OpDelete, policy.Snapshot{}); !d.Allow {
		return apperr.Forbidden(d.Reason)
	}
	if err := s.documents.Delete(ctx, doc); err != nil {
		return apperr.Internal("delete document", err)
	}
	// Stored file cleanup is best-effort; the row is already gone.
	if doc.FileKey != "" {
		if err := s.blob.DeleteObject(ctx, doc.FileKey); err != nil {
			s.log.Sugar().Warnw("delete document blob", "key", doc.FileKey, "err", err)
		}
	}
	return nil
}

func (s *documentService) DownloadURL(ctx context.Context, caller *model.Account, id uuid.UUID) (string, error) {
	doc, err := s.Retrieve(ctx, caller, id)
	if err != nil {
		return "", err
	}
	if doc.FileKey == "" {
		return "", apperr.NotFound("document has no file")
	}
	url, err := s.blob.PresignGet(ctx, doc.FileKey, s.presignTTL())
	if err != nil {
		return "", apperr.Internal("presign download", err)
	}
	return url, nil
}

func isTeamMember(project *model.Project, caller *model.Account) bool {
	if caller.Profile == nil {
		return false
	}
	for _, m := range project.TeamMembers {
		if m.ID == caller.Profile.ID {
			return true
		}
	}
	return false
}
