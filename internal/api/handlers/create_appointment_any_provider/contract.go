package create_appointment_any_provider

import (
	"context"

	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type CreateAppointmentAnyProviderUseCase interface {
	ExecuteAnyProvider(ctx context.Context, req *createAppointment.AnyProviderRequest) (*createAppointment.AnyProviderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
