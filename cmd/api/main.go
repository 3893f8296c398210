package main

import (
	"os"
)

// @title        Adoptme API
// @version      1.0
// @description  Users, pets, adoptions and mock data generators.
// @BasePath     /api
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
