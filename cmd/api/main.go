package main

import (
	"os"

	"github.com/kinohall/booking-system/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
