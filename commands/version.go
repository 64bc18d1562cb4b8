package commands

import (
	"bhinneka/version"
	"context"
	"fmt"

	ucli "github.com/urfave/cli/v3"
)

// versionCommand 创建 version 子命令
func versionCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "version",
		Usage: "显示版本信息",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			fmt.Fprintf(cmd.Root().Writer, "bhinneka: %s\n", version.Get())
			return nil
		},
	}
}
