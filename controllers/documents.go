package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"claim-management-api/config"
	"claim-management-api/services"
)

// DownloadClaimDocument serves a claim document to the owning submitter or
// any reviewer.
func DownloadClaimDocument(c *gin.Context) {
	documentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	docs := services.NewDocumentService(config.DB, services.DocumentRoot())
	download, err := docs.Resolve(documentID, userID.(int), roleID.(int))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.FileName))
	c.Header("Content-Type", download.ContentType)
	c.File(download.FullPath)
}
