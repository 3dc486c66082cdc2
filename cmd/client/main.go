package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campfire-trpg/campfire/internal/logger"
	"github.com/campfire-trpg/campfire/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:8080", "server address")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("file logging disabled: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)

	p := tea.NewProgram(ui.NewModel(serverURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("client error: %v", err)
	}
}
