package routes

import (
	"stayserve/constants"
	"stayserve/controllers"
	"stayserve/middleware"
	"stayserve/services"
	"stayserve/services/logger"
	"stayserve/services/notification"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires the services and mounts the HTTP surface
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) {
	log := logger.NewDefaultLogger(logger.InfoLevel)
	cache := services.NewRedisCache(redisClient)
	uploader := services.NewCloudinaryUploader(cld)
	drafts := services.NewDraftStore(cache)
	notifier := notification.NewMelodyService(m)

	listingService := services.NewListingService(db, drafts, uploader, cache, log)
	bookingService := services.NewBookingService(db, cache, notifier, log)
	offlineService := services.NewOfflineService(db, cache, log)
	reconciler := services.NewPhotoReconciler(db, uploader)

	listingController := controllers.NewListingController(listingService, drafts, reconciler, db)
	bookingController := controllers.NewBookingController(bookingService)
	offlineController := controllers.NewOfflineController(offlineService)

	api := router.Group("/api/v1")

	api.GET("/search", listingController.SearchServices)

	provider := api.Group("/provider", middleware.AuthMiddleware(constants.RoleProvider, constants.RoleStaff))
	{
		draft := provider.Group("/draft")
		{
			draft.GET("", listingController.GetDraft)
			draft.PUT("/step-one", listingController.SaveStepOne)
			draft.PUT("/step-two", listingController.SaveStepTwo)
			draft.DELETE("", listingController.CancelDraft)
		}

		svc := provider.Group("/services")
		{
			svc.GET("", listingController.GetMyServices)
			svc.POST("", listingController.CreateService)
			svc.GET("/:id", listingController.GetServiceDetail)
			svc.PUT("/:id", listingController.UpdateService)
			svc.GET("/:id/edit", listingController.EditDraft)
			svc.DELETE("/:id/photos", listingController.DeleteServicePhotos)
			svc.DELETE("/:id/rooms/:roomId/photos", listingController.DeleteRoomPhotos)
			svc.GET("/:id/calendar", bookingController.GetBookingCalendar)
			svc.PUT("/:id/reactivate", offlineController.ReactivateService)
		}

		bookings := provider.Group("/bookings")
		{
			bookings.GET("", bookingController.GetBookings)
			bookings.PUT("/:id/accept", bookingController.AcceptBooking)
			bookings.PUT("/:id/reject", bookingController.RejectBooking)
		}

		offline := provider.Group("/offline")
		{
			offline.GET("/selectable", offlineController.GetOnlineServices)
			offline.POST("", offlineController.SetOffline)
		}
	}
}
