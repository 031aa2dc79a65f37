package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/palemoky/rps-cards/internal/config"
	"github.com/palemoky/rps-cards/internal/logger"
	"github.com/palemoky/rps-cards/internal/server"
)

// options 命令行参数，未显式设置（命令行或环境变量）的项沿用配置文件
type options struct {
	configPath      string
	host            string
	port            int
	redisAddr       string
	turnTimeout     int
	logFile         string
	shutdownTimeout time.Duration
}

// loadEnvFiles 读取 dotenv 文件，不存在的文件忽略
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ 读取 %s 失败: %v", path, err)
		}
	}
}

func newCmd(opts *options) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RPS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "rps-server",
		Short:         "Two-player rock-paper-scissors card game coordinator.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts.shutdownTimeout)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "path to yaml config file (env: RPS_CONFIG)")
	fs.StringVarP(&opts.host, "host", "b", "", "address to bind to (env: RPS_HOST)")
	fs.IntVarP(&opts.port, "port", "p", 0, "port to listen on, default 3000 (env: RPS_PORT, PORT)")
	fs.StringVar(&opts.redisAddr, "redis-addr", "", "redis address for lobby snapshots, empty disables (env: RPS_REDIS_ADDR)")
	fs.IntVar(&opts.turnTimeout, "turn-timeout", 0, "seconds before an idle turn is auto-played, 0 disables (env: RPS_TURN_TIMEOUT)")
	fs.StringVar(&opts.logFile, "log-file", "", "log file path, empty logs to stderr (env: RPS_LOG_FILE)")
	fs.DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 30*time.Second, "time to wait for running matches on shutdown (env: RPS_SHUTDOWN_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if f.Name == "port" {
			_ = v.BindEnv(f.Name, "RPS_PORT", "PORT")
		} else {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

// load 读取配置文件，再用显式设置的参数覆盖
func (o *options) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("host") {
		cfg.Server.Host = o.host
	}
	if fs.Changed("port") {
		cfg.Server.Port = o.port
	}
	if fs.Changed("redis-addr") {
		cfg.Redis.Addr = o.redisAddr
	}
	if fs.Changed("turn-timeout") {
		cfg.Game.TurnTimeout = o.turnTimeout
	}
	if fs.Changed("log-file") {
		cfg.Log.File = o.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, shutdownTimeout time.Duration) error {
	if err := logger.Init(cfg.Log.File); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()
	if path := logger.GetLogPath(); path != "" {
		logger.LogInfo("📝 日志写入 %s", path)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("创建服务器失败: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	log.Println("🎮 石头剪刀布服务器启动中...")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
