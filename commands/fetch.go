package commands

import (
	"bhinneka/common"
	"bhinneka/logger"
	"bhinneka/tools/fetch"
	"context"
	"fmt"
	"time"

	ucli "github.com/urfave/cli/v3"
)

// fetchCommand 创建 fetch 子命令，执行一次抓取并输出与 fetch_url 相同的结果
func fetchCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "fetch",
		Usage:     "抓取一个 URL 并输出结果",
		ArgsUsage: "<url>",
		Flags: []ucli.Flag{
			&ucli.BoolFlag{Name: "render", Usage: "使用无头 Chrome 渲染 JS"},
			&ucli.BoolFlag{Name: "raw", Usage: "保留原始标记，不提取纯文本"},
			&ucli.BoolFlag{Name: "links", Usage: "提取页面链接"},
			&ucli.BoolFlag{Name: "json", Usage: "输出完整 JSON 结果"},
			&ucli.BoolFlag{Name: "markdown", Usage: "把 HTML 转换为 Markdown"},
			&ucli.Float64Flag{Name: "timeout", Usage: "超时秒数", Value: fetch.DefaultTimeout.Seconds()},
			&ucli.Int64Flag{Name: "max-bytes", Usage: "响应体大小上限", Value: fetch.DefaultMaxBytes},
			&ucli.BoolFlag{Name: "no-redirects", Usage: "不跟随重定向"},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			if cmd.NArg() != 1 {
				return ucli.Exit("用法: bhinneka fetch <url>", 2)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			req := fetch.NewRequest(cmd.Args().First())
			req.RenderJS = cmd.Bool("render")
			req.TextOnly = !cmd.Bool("raw")
			req.ExtractLinks = cmd.Bool("links")
			req.ReturnJSON = cmd.Bool("json")
			req.Markdown = cmd.Bool("markdown")
			req.Timeout = time.Duration(cmd.Float64("timeout") * float64(time.Second))
			req.MaxBytes = cmd.Int64("max-bytes")
			req.FollowRedirects = !cmd.Bool("no-redirects")

			out := fetch.NewService(cfg.Fetch, log).Fetch(ctx, req)
			fmt.Fprintln(cmd.Root().Writer, out)
			if common.IsFailure(out) {
				return ucli.Exit("", 1)
			}
			return nil
		},
	}
}
