package main

import (
	"net/http"

	"github.com/craftfolio/studio_backend/middlewares"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/workflow"
	"github.com/gin-gonic/gin"
)

func listContractsHandler(c *gin.Context) {
	var status *models.ContractStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ContractStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &s
	}
	contracts, err := models.GetContracts(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func createContractHandler(c *gin.Context) {
	var input models.NewContract
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := models.CreateContract(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func getContractHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	contract, err := models.GetContract(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"contract": contract}
	if contract.ClientId > 0 {
		if client, err := middlewares.GetClient(ctx, contract.ClientId); err == nil && client != nil {
			response["client"] = client
		}
	}
	if contract.TemplateId > 0 {
		if template, err := middlewares.GetContractTemplate(ctx, contract.TemplateId); err == nil && template != nil {
			response["template"] = template
		}
	}
	c.JSON(http.StatusOK, response)
}

func updateContractHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewContract
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := models.UpdateContract(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func deleteContractHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	contract, err := models.DeleteContract(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func updateContractStatusHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Status models.ContractStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := models.UpdateContractStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func contractStatsHandler(c *gin.Context) {
	stats, err := models.GetContractStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func exportContractPDFHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !accountPlanLimits(c).PDFExportEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "PDF export is not available on the current plan"})
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "export.contract.pdf")
	defer span.End()

	url, err := workflow.ExportContractPDF(ctx, id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// contractWizardCommitHandler runs the wizard's terminal action server side.
// The client sends the whole wizard state; a persistence failure reports the
// step so the UI stays put.
func contractWizardCommitHandler(c *gin.Context) {
	var body struct {
		Wizard workflow.ContractWizard     `json:"wizard" binding:"required"`
		Action workflow.WizardCommitAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := body.Wizard.Commit(c.Request.Context(), body.Action)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":        err.Error(),
			"current_step": body.Wizard.CurrentStep,
		})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func listContractTemplatesHandler(c *gin.Context) {
	templates, err := models.GetContractTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, templates)
}

func createContractTemplateHandler(c *gin.Context) {
	var input models.NewContractTemplate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := models.CreateContractTemplate(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, template)
}

func getContractTemplateHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	template, err := models.GetContractTemplate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, template)
}

func updateContractTemplateHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewContractTemplate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := models.UpdateContractTemplate(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, template)
}

func deleteContractTemplateHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	template, err := models.DeleteContractTemplate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, template)
}
