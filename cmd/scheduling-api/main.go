package main

import (
	"os"
)

// @title Course Scheduling API
// @version 1.0.0
// @description Teacher availability, seat capacity, enrollment and course calendar projection.
// @BasePath /api/v1
// @schemes http

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
