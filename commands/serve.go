package commands

import (
	"bhinneka/config"
	"bhinneka/logger"
	"bhinneka/server"
	"bhinneka/tools"
	"context"

	"github.com/pterm/pterm"
	ucli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serverFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:    "transport",
			Aliases: []string{"t"},
			Usage:   "传输方式: stdio|http",
		},
		&ucli.StringFlag{
			Name:  "host",
			Usage: "HTTP 模式监听地址",
		},
		&ucli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "HTTP 模式监听端口",
		},
		&ucli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别: debug|info|warn|error",
		},
		&ucli.StringSliceFlag{
			Name:  "tools",
			Usage: "启用的工具集: flights,search,fetch,docs，默认全部",
		},
	}
}

// serveCommand 创建 serve 子命令
func serveCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "serve",
		Usage: "启动 MCP 服务 (默认 stdio，http 模式下在 /mcp 提供 streamable HTTP)",
		Flags: serverFlags(),
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}
}

// devCommand 创建 dev 子命令
func devCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "dev",
		Usage: "以 stdio 方式启动并输出调试日志",
		Flags: []ucli.Flag{
			&ucli.StringSliceFlag{
				Name:  "tools",
				Usage: "启用的工具集: flights,search,fetch,docs，默认全部",
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Server.Transport = "stdio"
			cfg.Log.Level = "debug"
			cfg.Log.Console = true
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(cfg, tools.NewServices(cfg, log), log)
	if err != nil {
		return err
	}
	if cfg.Server.Transport == "http" {
		pterm.Info.Printfln("bhinneka MCP 服务监听 http://%s%s", cfg.Server.Addr(), cfg.Server.MCPPath)
	}
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
