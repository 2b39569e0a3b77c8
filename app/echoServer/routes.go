package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/n4th05/blockbuster-api/app/echoServer/controller/movie"
	"github.com/n4th05/blockbuster-api/app/echoServer/controller/rental"
	"github.com/n4th05/blockbuster-api/app/echoServer/controller/user"
)

type C struct {
	Movie  *movie.Controller
	User   *user.Controller
	Rental *rental.Controller
}

func Register(e *echo.Echo, c C) {
	v1 := e.Group("/v1")

	// Movies
	v1.GET("/movies", c.Movie.List)
	v1.GET("/movies/trending", c.Movie.Trending)
	v1.GET("/movies/available", c.Movie.Available)
	v1.GET("/movies/search", c.Movie.Search)
	v1.GET("/movies/statistics", c.Movie.Statistics)
	v1.GET("/movies/:id", c.Movie.Detail)
	v1.GET("/movies/:id/availability", c.Movie.Availability)
	v1.POST("/movies", c.Movie.Create)
	v1.PUT("/movies/:id", c.Movie.Update)
	v1.DELETE("/movies/:id", c.Movie.Delete)

	// Users
	v1.GET("/users", c.User.List)
	v1.GET("/users/with-active-rentals", c.User.WithActiveRentals)
	v1.GET("/users/with-rental-history", c.User.RentalHistory)
	v1.GET("/users/search", c.User.Search)
	v1.GET("/users/movie/:movieId", c.User.WhoRentedMovie)
	v1.GET("/users/top/:count", c.User.TopRenters)
	v1.GET("/users/:id", c.User.Detail)
	v1.POST("/users", c.User.Create)
	v1.PUT("/users/:id", c.User.Update)
	v1.DELETE("/users/:id", c.User.Delete)

	// Rentals
	v1.GET("/rentals", c.Rental.List)
	v1.GET("/rentals/active", c.Rental.Active)
	v1.GET("/rentals/overdue", c.Rental.Overdue)
	v1.GET("/rentals/upcoming", c.Rental.Upcoming)
	v1.GET("/rentals/search", c.Rental.Search)
	v1.GET("/rentals/statistics", c.Rental.Statistics)
	v1.GET("/rentals/:userId/:movieId", c.Rental.Detail)
	v1.POST("/rentals", c.Rental.Create)
	v1.PUT("/rentals/:userId/:movieId", c.Rental.Update)
	v1.DELETE("/rentals/:userId/:movieId", c.Rental.Delete)
}
