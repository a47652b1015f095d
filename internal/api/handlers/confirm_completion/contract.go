package confirm_completion

import (
	"context"

	confirmCompletion "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_completion"
)

type ConfirmCompletionUseCase interface {
	Execute(ctx context.Context, req *confirmCompletion.Request) (*confirmCompletion.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
