// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title Road Vision Store API
// @version 1.0
// @description Stores processed agent data and streams newly created rows to live subscribers.
// @BasePath /
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting Road Vision Store v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"   ___                 ___   ___     _         ",
		"  | _ \\___  __ _ __| | \\ \\ / (_)___(_)___ _ _ ",
		"  |   / _ \\/ _` / _` |  \\ V /| (_-<| / _ \\ ' \\",
		"  |_|_\\___/\\__,_\\__,_|   \\_/ |_/__/|_\\___/_||_|",
		"..........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
