package container

import (
	app "scroll-stitch/internal/application"
	"scroll-stitch/internal/domain/port"
)

type Container struct {
	UserService    *app.UserService
	CaptureService *app.CaptureService
}

func New(userRepo port.UserRepository, deps app.CaptureDeps, settings app.CaptureSettings) *Container {
	userService := app.NewUserService(userRepo)
	captureService := app.NewCaptureService(userService, deps, settings)

	return &Container{
		UserService:    userService,
		CaptureService: captureService,
	}
}
