package block_time

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/blocks/models"
)

type BlockService interface {
	Block(ctx context.Context, req *models.BlockTimeRequest) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
