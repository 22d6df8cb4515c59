package main

import (
	"fmt"
	"os"

	"github.com/yungbote/reactions-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	application.Log.Info("Server listening", "addr", application.Cfg.ListenAddr)
	if err := application.Run(application.Cfg.ListenAddr); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
