package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/albaranes-api/internal/dto"
	apierrors "github.com/yukikurage/albaranes-api/internal/errors"
	"github.com/yukikurage/albaranes-api/internal/middleware"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/services"
)

const albaranNotFound = "albaran not found"

// artifactName matches the local files written when a note is signed.
var artifactName = regexp.MustCompile(`^(?:albaran_(\d+)\.pdf|firma_(\d+)\.(?:png|jpg))$`)

// AlbaranHandler serves the delivery note endpoints.
type AlbaranHandler struct {
	albaranes *services.AlbaranService
	signing   *services.SigningService
}

// NewAlbaranHandler creates a new AlbaranHandler.
func NewAlbaranHandler(albaranes *services.AlbaranService, signing *services.SigningService) *AlbaranHandler {
	return &AlbaranHandler{
		albaranes: albaranes,
		signing:   signing,
	}
}

// CreateAlbaran stores a new unsigned delivery note
func (h *AlbaranHandler) CreateAlbaran(c *gin.Context) {
	type CreateAlbaranRequest struct {
		ClientID    uint64   `json:"clientId" binding:"required"`
		ProjectID   uint64   `json:"projectId" binding:"required"`
		Format      string   `json:"format" binding:"required,oneof=hours material"`
		Hours       *float64 `json:"hours" binding:"omitempty,gt=0"`
		Material    *string  `json:"material" binding:"omitempty,max=255"`
		Description string   `json:"description" binding:"required"`
		Workdate    string   `json:"workdate" binding:"required"`
	}

	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req CreateAlbaranRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	albaran, err := h.albaranes.Create(p, services.CreateAlbaranInput{
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Format:      models.AlbaranFormat(req.Format),
		Hours:       req.Hours,
		Material:    req.Material,
		Description: req.Description,
		Workdate:    req.Workdate,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAlbaranDTO(*albaran))
}

// ListAlbaranes returns the caller's delivery notes
func (h *AlbaranHandler) ListAlbaranes(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	albaranes, err := h.albaranes.List(p)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	items := make([]dto.AlbaranListItemDTO, 0, len(albaranes))
	for _, a := range albaranes {
		items = append(items, dto.ToAlbaranListItemDTO(a))
	}
	c.JSON(http.StatusOK, items)
}

// GetAlbaran returns one delivery note with its client and project
func (h *AlbaranHandler) GetAlbaran(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, albaranNotFound)
	if !ok {
		return
	}

	albaran, err := h.albaranes.Get(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAlbaranDetailDTO(*albaran))
}

// GetAlbaranPDF streams the stored signed document or a freshly rendered draft
func (h *AlbaranHandler) GetAlbaranPDF(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, albaranNotFound)
	if !ok {
		return
	}

	doc, err := h.signing.FetchOrGeneratePDF(c.Request.Context(), id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// GetArtifact serves the local copy of a signed note's document or signature to its creator
func (h *AlbaranHandler) GetArtifact(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	name := c.Param("file")
	match := artifactName.FindStringSubmatch(name)
	if match == nil {
		apierrors.NotFound(c, "file not found")
		return
	}
	id, err := strconv.ParseUint(match[1]+match[2], 10, 64)
	if err != nil {
		apierrors.NotFound(c, "file not found")
		return
	}

	path, err := h.signing.ArtifactPath(id, p, name)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.File(path)
}

// SignAlbaran attaches the uploaded signature and finalizes the document
func (h *AlbaranHandler) SignAlbaran(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, albaranNotFound)
	if !ok {
		return
	}

	upload, _ := middleware.GetSignatureUpload(c)
	result, err := h.signing.Sign(c.Request.Context(), id, p, upload)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignResultDTO{Sign: result.Sign, PDF: result.PDF})
}

// DeleteAlbaran removes an unsigned delivery note. ?soft=true only flags it as deleted.
func (h *AlbaranHandler) DeleteAlbaran(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, albaranNotFound)
	if !ok {
		return
	}

	soft := false
	if raw := c.Query("soft"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.UnprocessableEntity(c, "soft must be a boolean")
			return
		}
		soft = parsed
	}

	var err error
	if soft {
		err = h.albaranes.SoftDelete(id, p)
	} else {
		err = h.albaranes.Delete(id, p)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Albaran deleted successfully",
		"id":      id,
		"soft":    soft,
	})
}
