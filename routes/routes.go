package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yuvalsigall-cpu/menu-cleaner/controllers"
)

// RegisterRoutes mounts the catalog API. auth guards every /catalog route.
func RegisterRoutes(r *gin.Engine, catalog *controllers.CatalogHandler, jobs *controllers.JobHandler, auth gin.HandlerFunc) {
	r.GET("/health", controllers.Health)

	catalogRoutes := r.Group("/catalog", auth)
	{
		catalogRoutes.POST("/clean", catalog.Clean)
		catalogRoutes.POST("/validate", catalog.Validate)
		catalogRoutes.POST("/lookup", catalog.Lookup)

		catalogRoutes.GET("/jobs/:id", jobs.GetJob)
		catalogRoutes.GET("/jobs/:id/report", jobs.GetReport)
		catalogRoutes.GET("/jobs/:id/lookup", jobs.Lookup)

		catalogRoutes.GET("/runs", jobs.ListRuns)
	}
}
