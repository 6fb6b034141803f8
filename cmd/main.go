package main

import (
	"os"

	"aumkeeper/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Keeper stopped")
		os.Exit(1)
	}
}
