package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"claim-management-api/config"
	"claim-management-api/services"
)

// AskAssistant answers a multipart request with message text and optional
// files. Uploaded files take priority: if any file yields an analysis, the
// question is ignored for that turn. This endpoint never fails: every error
// becomes chat text in a 200 response.
func AskAssistant(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	message := strings.TrimSpace(c.PostForm("message"))

	analyzer := services.NewInvoiceAnalyzer(services.PDFExtractor{})
	if analysis := analyzer.AnalyzeFiles(formFiles(c)); analysis != "" {
		c.JSON(http.StatusOK, gin.H{"text": analysis})
		return
	}

	assistant := services.NewAssistantService(config.DB)
	answer, err := assistant.Answer(userID.(int), roleID.(int), message)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"text": fmt.Sprintf("Sorry, I ran into a problem processing that. Error: %v", err)})
		return
	}
	if answer == "" {
		answer = assistant.FallbackHelp(roleID.(int))
	}

	c.JSON(http.StatusOK, gin.H{"text": answer})
}
