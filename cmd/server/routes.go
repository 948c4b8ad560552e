package main

import (
	"github.com/airlinereservation/booking-backend/internal/handlers"
	"github.com/airlinereservation/booking-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type routeHandlers struct {
	user     *handlers.UserHandler
	airport  *handlers.AirportHandler
	airplane *handlers.AirplaneHandler
	flight   *handlers.FlightHandler
	booking  *handlers.FlightBookingHandler
}

func registerRoutes(router *gin.Engine, h routeHandlers, auth gin.HandlerFunc, limiter *middleware.IPRateLimiter) {
	adminOnly := []gin.HandlerFunc{auth, middleware.RequireRole("admin")}
	passengerOnly := []gin.HandlerFunc{auth, middleware.RequireRole("passenger")}
	anyUser := []gin.HandlerFunc{auth, middleware.RequireRole("admin", "passenger")}

	api := router.Group("/api")

	user := api.Group("/user")
	{
		public := user.Group("", limiter.Middleware())
		public.POST("/register", h.user.RegisterPassenger)
		public.POST("/admin/register", h.user.RegisterAdmin)
		public.POST("/login", h.user.Login)
		public.POST("/refresh-token", h.user.RefreshToken)
		public.POST("/logout", h.user.Logout)
		public.POST("/forgot-password", h.user.ForgotPassword)
		public.POST("/reset-password", h.user.ResetPassword)

		user.GET("/fetch/role", append(adminOnly, h.user.FetchByRole)...)
		user.PUT("/update/status", append(adminOnly, h.user.UpdateStatus)...)
		user.PUT("/add/wallet/money", append(passengerOnly, h.user.AddWalletMoney)...)
		user.GET("/passenger/wallet/fetch", append(passengerOnly, h.user.FetchWallet)...)
	}

	airport := api.Group("/airport")
	{
		airport.POST("/add", append(adminOnly, h.airport.AddAirport)...)
		airport.GET("/fetch/all", h.airport.FetchAll)
	}

	airplane := api.Group("/airplane")
	{
		airplane.POST("/add", append(adminOnly, h.airplane.AddAirplane)...)
		airplane.GET("/fetch/all", append(adminOnly, h.airplane.FetchAll)...)
	}

	flight := api.Group("/flight")
	{
		flight.POST("/add", append(adminOnly, h.flight.AddFlight)...)
		flight.GET("/fetch/all", h.flight.FetchAll)
		flight.GET("/search", h.flight.Search)
		flight.GET("/class/all", h.flight.FetchClasses)
		flight.GET("/status/all", append(adminOnly, h.flight.FetchStatuses)...)
		flight.PUT("/update/status", append(adminOnly, h.flight.UpdateStatus)...)
	}

	book := flight.Group("/book")
	{
		book.POST("/add", append(passengerOnly, h.booking.AddBooking)...)
		book.GET("/fetch/all", append(adminOnly, h.booking.FetchAll)...)
		book.GET("/fetch/user", append(passengerOnly, h.booking.FetchByUser)...)
		book.GET("/fetch/flight", append(adminOnly, h.booking.FetchByFlight)...)
		book.GET("/fetch", h.booking.FetchByBookingID)
		book.PUT("/ticket/cancel", append(passengerOnly, h.booking.CancelBooking)...)
		book.GET("/fetch/seatDetails", h.booking.SeatDetails)
		book.GET("/download/ticket", append(anyUser, h.booking.DownloadTicket)...)
	}
}
