package main

import (
	"net/http"
	"strconv"

	"github.com/craftfolio/studio_backend/models"
	"github.com/gin-gonic/gin"
)

/* Clients */

func listClientsHandler(c *gin.Context) {
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}
	clients, err := models.GetClients(c.Request.Context(), search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clients)
}

func createClientHandler(c *gin.Context) {
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	client, err := models.CreateClient(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}

func getClientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

func updateClientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := models.UpdateClient(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

func deleteClientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.DeleteClient(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

/* Projects */

func listProjectsHandler(c *gin.Context) {
	var clientId *int
	if raw := c.Query("client_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			clientId = &id
		}
	}
	projects, err := models.GetProjects(c.Request.Context(), clientId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func createProjectHandler(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func getProjectHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := models.GetProject(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func updateProjectHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := models.UpdateProject(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func deleteProjectHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := models.DeleteProject(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

/* Leads */

func listLeadsHandler(c *gin.Context) {
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}
	leads, err := models.GetLeads(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, leads)
}

func createLeadHandler(c *gin.Context) {
	var input models.NewLead
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	lead, err := models.CreateLead(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func getLeadHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lead, err := models.GetLead(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func updateLeadHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewLead
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead, err := models.UpdateLead(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func deleteLeadHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lead, err := models.DeleteLead(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func convertLeadHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.ConvertLeadToClient(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}
