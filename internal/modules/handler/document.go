package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type DocumentHandler struct {
	svc service.DocumentService
}

func NewDocumentHandler(s service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: s}
}

type CreateDocumentReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Version     string `json:"version"`
	ProjectID   string `json:"project_id" binding:"required,uuid"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type UpdateDocumentReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
}

// ListDocuments godoc
//
//	@Summary		List documents
//	@Description	List documents (manager only)
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListDocumentsOutput}
//	@Router			/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListDocumentsInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// CreateDocument godoc
//
//	@Summary		Create document
//	@Description	Create a document record and return a presigned upload URL for its file
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateDocumentReq	true	"CreateDocument payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.CreateDocumentOutput}
//	@Router			/documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	req := CreateDocumentReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}

	out, err := h.svc.Create(c.Request.Context(), caller, service.CreateDocumentInput{
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		ProjectID:   projectID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// GetDocument godoc
//
//	@Summary		Get document
//	@Description	Retrieve one document from the caller's scoped set
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Document}
//	@Router			/documents/{document_id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	doc, err := h.svc.Retrieve(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: doc})
}

// DownloadDocument godoc
//
//	@Summary		Download document
//	@Description	Return a presigned GET URL for the document's file
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=string}
//	@Router			/documents/{document_id}/download [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{"download_url": url}})
}

// UpdateDocument godoc
//
//	@Summary		Update document
//	@Description	Partially update a document's metadata
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path	string						true	"Document ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateDocumentReq	true	"UpdateDocument payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Document}
//	@Router			/documents/{document_id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateDocumentReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), caller, id, service.UpdateDocumentInput{
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: doc})
}

// DeleteDocument godoc
//
//	@Summary		Delete document
//	@Description	Delete a document and its stored file (manager only)
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		204	{object}	nil
//	@Router			/documents/{document_id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
