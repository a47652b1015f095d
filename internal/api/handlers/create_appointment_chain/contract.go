package create_appointment_chain

import (
	"context"

	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type CreateAppointmentChainUseCase interface {
	ExecuteChain(ctx context.Context, req *createAppointment.ChainRequest) (*createAppointment.ChainResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
