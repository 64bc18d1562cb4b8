package commands

import (
	"bhinneka/common"
	"bhinneka/config"
	"context"

	"github.com/pterm/pterm"
	ucli "github.com/urfave/cli/v3"
)

// generateCommand 创建 generate 子命令
func generateCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "generate",
		Usage: "生成示例配置文件",
		Commands: []*ucli.Command{
			{
				Name:  "env",
				Usage: "生成示例 .env 文件",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: ".env.example", Usage: "输出路径"},
				},
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					path := cmd.String("output")
					if err := common.GenerateExampleEnv(path); err != nil {
						return err
					}
					pterm.Success.WithWriter(cmd.Root().Writer).Printfln("成功生成示例.env文件: %s", path)
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "生成示例配置文件，扩展名为 .yaml/.yml 时输出 YAML",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: config.DefaultPath, Usage: "输出路径"},
				},
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					path := cmd.String("output")
					if err := config.GenerateExample(path); err != nil {
						return err
					}
					pterm.Success.WithWriter(cmd.Root().Writer).Printfln("成功生成示例配置文件: %s", path)
					return nil
				},
			},
		},
	}
}
