package commands

import (
	"bhinneka/config"
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	ucli "github.com/urfave/cli/v3"
)

// loadConfig 先加载 .env，再读取配置文件和环境变量，最后用命令行参数覆盖
func loadConfig(cmd *ucli.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("transport") {
		cfg.Server.Transport = strings.ToLower(cmd.String("transport"))
	}
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = strings.ToLower(cmd.String("log-level"))
	}
	if cmd.IsSet("tools") {
		var names []string
		for _, name := range cmd.StringSlice("tools") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				names = append(names, name)
			}
		}
		cfg.Server.Tools = names
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
