package main

import (
	"context"
	"fmt"
	"os"

	"github.com/embedfoundry/firmhook/cmd/firmhook"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	ctx := context.Background()

	rootCmd := firmhook.NewRootCmd(ctx)

	if err := firmhook.ExecuteWithFang(ctx, rootCmd); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
