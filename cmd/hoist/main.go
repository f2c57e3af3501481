package main

import (
	"errors"
	"os"

	cmd "github.com/MrSnakeDoc/hoist/internal"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/middleware"
)

func main() {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, middleware.ErrLogged) {
		logger.LogError(err.Error())
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
