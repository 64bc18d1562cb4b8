package commands

import (
	"bhinneka/server/handler"
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	ucli "github.com/urfave/cli/v3"
)

// tokenCommand 创建 token 子命令，用 BHINNEKA_AUTH_SECRET 签发 HTTP 模式使用的身份令牌
func tokenCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "token",
		Usage: "签发 HTTP 模式使用的 Bearer 令牌",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "令牌对应的邮箱"},
			&ucli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "令牌有效期"},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ttl := cmd.Duration("ttl")
			if ttl <= 0 {
				return ucli.Exit("ttl 必须大于 0", 2)
			}
			token, err := handler.NewTokenSigner(cfg.Auth.Secret).Generate(cmd.String("email"), ttl)
			if err != nil {
				return err
			}
			pterm.Info.WithWriter(cmd.Root().ErrWriter).Printfln("有效期至 %s", time.Now().Add(ttl).Format(time.RFC3339))
			fmt.Fprintln(cmd.Root().Writer, token)
			return nil
		},
	}
}
