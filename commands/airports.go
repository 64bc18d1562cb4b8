package commands

import (
	"bhinneka/tools/flights"
	"context"
	"strings"

	"github.com/pterm/pterm"
	ucli "github.com/urfave/cli/v3"
)

// airportsCommand 创建 airports 子命令，在内置机场表中查找
func airportsCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "airports",
		Usage:     "按代码、城市或名称查找机场",
		ArgsUsage: "<query>",
		Flags: []ucli.Flag{
			&ucli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Usage: "最多返回的机场数量"},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if query == "" {
				return ucli.Exit("用法: bhinneka airports <query>", 2)
			}
			found := flights.SearchAirports(query, cmd.Int("limit"))
			if len(found) == 0 {
				pterm.Warning.WithWriter(cmd.Root().Writer).Printfln("没有找到与 %q 匹配的机场", query)
				return nil
			}
			data := pterm.TableData{{"Code", "Name", "Location"}}
			for _, a := range found {
				data = append(data, []string{a.Code, a.Name, a.Location()})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.Root().Writer).Render()
		},
	}
}
