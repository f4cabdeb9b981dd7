package main

import (
	"os"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
