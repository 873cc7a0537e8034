package usecase

import "context"

const (
	ServiceName    = "Portfolio Contact API"
	ServiceVersion = "1.0.0"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
	Info(ctx context.Context) map[string]string
}

type healthUsecase struct {
	docsPath string
}

func NewHealthUsecase(docsPath string) HealthUsecase {
	return &healthUsecase{docsPath: docsPath}
}

// Check reports liveness only. The database is not probed.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	return map[string]string{
		"status":   "healthy",
		"database": "connected",
	}
}

func (u *healthUsecase) Info(ctx context.Context) map[string]string {
	return map[string]string{
		"message": ServiceName,
		"version": ServiceVersion,
		"docs":    u.docsPath,
	}
}
