package main

import (
	"context"

	"github.com/simonbru/taxi/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
