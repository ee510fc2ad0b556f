package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"marketflow/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	serviceURL := flag.String("url", "http://localhost:8080", "Activation service URL")
	entryID := flag.String("entry", "demo-entry", "CMS entry to activate")
	listID := flag.String("list", "ML_DEMO_001", "Marketing list to dispatch into")
	flag.Parse()

	// Create TUI model
	m := tui.NewModel(*serviceURL, *entryID, *listID)

	// Create the tea program
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
