package controllers

import (
	"io"

	"github.com/gin-gonic/gin"

	"claim-management-api/realtime"
)

// StreamEvents subscribes the caller to live claim status updates over SSE.
// Channel membership is decided once from the caller's role; teardown of the
// connection removes it again.
func StreamEvents(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	sub := realtime.Default.Subscribe(userID.(int), roleID.(int))
	defer realtime.Default.Unsubscribe(sub.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case ev, ok := <-sub.Events:
			if !ok {
				return false
			}
			c.SSEvent(realtime.EventName, ev)
			return true
		}
	})
}
