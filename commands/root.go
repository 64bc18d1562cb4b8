package commands

import (
	"bhinneka/version"
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	ucli "github.com/urfave/cli/v3"
)

// Root 创建根命令
func Root() *ucli.Command {
	return &ucli.Command{
		Name:    "bhinneka",
		Usage:   "航班搜索、网页搜索、安全抓取和文档查询的 MCP 工具服务",
		Version: version.Get().String(),
		Before: func(ctx context.Context, cmd *ucli.Command) (context.Context, error) {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				pterm.DisableStyling()
			}
			return ctx, nil
		},
		Commands: []*ucli.Command{
			serveCommand(),
			devCommand(),
			fetchCommand(),
			airportsCommand(),
			tokenCommand(),
			generateCommand(),
			versionCommand(),
		},
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (.toml/.yaml)，默认使用存在的 config/config.toml",
				Sources: ucli.EnvVars("BHINNEKA_CONFIG"),
			},
		},
	}
}
