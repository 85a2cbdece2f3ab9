package main

import (
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-gl/internal/cli"
	"github.com/Carmen-Shannon/oxy-gl/internal/logging"
)

// GLFW and OpenGL calls must come from the main thread.
func init() {
	runtime.LockOSThread()
}

// main is the entry point for the oxyctx CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
