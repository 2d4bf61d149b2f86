package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/render"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/craftfolio/studio_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// bindErrorResponse surfaces per-field tags for struct validation failures
// so the client can mark the offending inputs.
func bindErrorResponse(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": utils.ProcessValidationErrors(vErrs),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// accountPlanLimits resolves the caller's plan tier from the auth claims.
// Missing or unknown plans fall back to the free tier.
func accountPlanLimits(c *gin.Context) config.PlanLimits {
	plan, _ := utils.GetPlanFromContext(c.Request.Context())
	return config.ResolvePlanLimits(plan)
}

func listProposalsHandler(c *gin.Context) {
	var status *models.ProposalStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ProposalStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &s
	}
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}

	proposals, err := models.GetProposals(c.Request.Context(), status, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposals)
}

func createProposalHandler(c *gin.Context) {
	var input models.NewProposal
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	limits := accountPlanLimits(c)
	active, err := models.CountActiveProposals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !limits.AllowsNewProposal(active) {
		c.JSON(http.StatusForbidden, gin.H{"error": "active proposal limit reached for the current plan"})
		return
	}

	proposal, err := models.CreateProposal(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

func getProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	proposal, err := models.GetProposal(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func updateProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewProposal
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposal, err := models.UpdateProposal(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func deleteProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	proposal, err := models.DeleteProposal(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func duplicateProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	proposal, err := models.DuplicateProposal(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

func sendProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	proposal, err := workflow.SendProposal(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func markProposalViewedHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	proposal, err := workflow.MarkProposalViewed(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func acceptProposalHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		SignatureName string `json:"signature_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposal, err := workflow.AcceptProposal(c.Request.Context(), id, body.SignatureName)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func uploadProposalLogoHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !accountPlanLimits(c).CustomBrandingAllowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "custom branding is not available on the current plan"})
		return
	}

	var body struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposal, err := workflow.UploadProposalLogo(c.Request.Context(), id, body.ImageBase64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func exportProposalPDFHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	kind := render.DocumentKind(c.DefaultQuery("kind", string(render.DocumentKindProposal)))

	if !accountPlanLimits(c).PDFExportEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "PDF export is not available on the current plan"})
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "export.proposal.pdf")
	defer span.End()

	url, err := workflow.ExportProposalPDF(ctx, id, kind)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
