package unblock_time

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/blocks/models"
)

type BlockService interface {
	Unblock(ctx context.Context, req *models.UnblockTimeRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
