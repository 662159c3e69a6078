package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hdtransit/erp_backend/internal/utils"
)

// actionForMethod names the product event recorded for each mutating method.
var actionForMethod = map[string]string{
	http.MethodPost:   "created",
	http.MethodPut:    "updated",
	http.MethodDelete: "deleted",
}

// PosthogMiddleware records one product event per successful write made by an
// authenticated user, e.g. "transactions_created" for POST /api/transactions. Reads are
// not tracked.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		action, tracked := actionForMethod[c.Request.Method]
		if !tracked || !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		resource := resourceFromRoute(c.FullPath())
		if resource == "" {
			return
		}

		props := map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			props["resource_id"] = id
		}
		posthogClient.Enqueue(userID, resource+"_"+action, props)
	}
}

// PosthogEvent sends a custom event on behalf of the authenticated user.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(userID, eventName, properties)
}

// resourceFromRoute turns "/api/data-entries/:id" into "data_entries".
func resourceFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) < 2 || parts[0] != "api" {
		return ""
	}
	return strings.ReplaceAll(parts[1], "-", "_")
}
