package middleware

import (
	"errors"

	"github.com/MrSnakeDoc/hoist/internal/errs"
	"github.com/MrSnakeDoc/hoist/internal/logger"
)

// ErrLogged marks an error whose message already reached the user.
var ErrLogged = errors.New("already logged")

func InvocationError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
