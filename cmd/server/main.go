package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env 只补充未设置的环境变量
	loadEnvFiles(".env")

	cobra.CheckErr(newCmd(&options{}).ExecuteContext(ctx))
}
