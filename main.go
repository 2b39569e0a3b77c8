// Package main blockbuster API.
//
// @title           Blockbuster API
// @version         1.0
// @description     movie rental service (movies, users, rentals, statistics).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/n4th05/blockbuster-api/app/echoServer"
	moviectrl "github.com/n4th05/blockbuster-api/app/echoServer/controller/movie"
	rentalctrl "github.com/n4th05/blockbuster-api/app/echoServer/controller/rental"
	userctrl "github.com/n4th05/blockbuster-api/app/echoServer/controller/user"
	"github.com/n4th05/blockbuster-api/app/echoServer/validation"
	"github.com/n4th05/blockbuster-api/config"
	movierepo "github.com/n4th05/blockbuster-api/repository/movie"
	rentalrepo "github.com/n4th05/blockbuster-api/repository/rental"
	userrepo "github.com/n4th05/blockbuster-api/repository/user"
	moviesvc "github.com/n4th05/blockbuster-api/service/movie"
	rentalsvc "github.com/n4th05/blockbuster-api/service/rental"
	usersvc "github.com/n4th05/blockbuster-api/service/user"
	"github.com/n4th05/blockbuster-api/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	pool, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Init(ctx, pool); err != nil {
		log.Error("db init failed", "err", err)
		os.Exit(1)
	}

	// repos
	mr := movierepo.New(pool)
	ur := userrepo.New(pool)
	rr := rentalrepo.New(pool)

	// services
	md := moviesvc.NewDomainService(mr)
	ud := usersvc.NewDomainService(ur)
	rd := rentalsvc.NewDomainService(rr, mr, ur)
	ms := moviesvc.New(mr, md)
	us := usersvc.New(ur, ud)
	rs := rentalsvc.New(rr, rd, mr, ur)

	// controllers
	v := validator.New()
	movieC := &moviectrl.Controller{Svc: ms, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Movie:  movieC,
		User:   userC,
		Rental: rentalC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
