package main

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/craftfolio/studio_backend/utils"
	"github.com/gin-gonic/gin"
)

type uploadObjectRequest struct {
	Path          string `json:"path" binding:"required"`
	ContentBase64 string `json:"content_base64" binding:"required"`
	ContentType   string `json:"content_type"`
	CacheControl  string `json:"cache_control"`
	Upsert        bool   `json:"upsert"`
}

// uploadObjectHandler stores an arbitrary blob under the account's namespace.
// The caller supplies a relative path; it is always prefixed with the account
// id so one tenant can never write into another's keyspace.
func uploadObjectHandler(c *gin.Context) {
	ctx := c.Request.Context()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is required"})
		return
	}

	var req uploadObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := strings.Trim(req.Path, "/")
	if path == "" || strings.Contains(path, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object path"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_base64 is not valid base64"})
		return
	}

	objectKey := accountId + "/" + path
	storedKey, err := utils.UploadObject(ctx, objectKey, bytes.NewReader(data), utils.UploadOptions{
		ContentType:  req.ContentType,
		CacheControl: req.CacheControl,
		Upsert:       req.Upsert,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key": storedKey,
		"url": utils.BuildObjectAccessURL(storedKey),
	})
}
