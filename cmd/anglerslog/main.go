package main

import (
	"context"
	"os"

	"github.com/latoulicious/anglerslog/internal/commands"
)

func main() {
	os.Exit(commands.Execute(context.Background(), os.Args[1:]))
}
