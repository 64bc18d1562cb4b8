package tools

import (
	"bhinneka/config"
	"bhinneka/tools/docs"
	"bhinneka/tools/fetch"
	"bhinneka/tools/flights"
	"bhinneka/tools/search"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Names 全部工具集名称，按注册顺序
var Names = []string{"flights", "search", "fetch", "docs"}

// Services 各工具集使用的服务
type Services struct {
	Fetch   *fetch.Service
	Search  *search.Service
	Docs    *docs.Service
	Flights *flights.Service
}

// NewServices 按配置创建全部服务
func NewServices(cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Fetch:   fetch.NewService(cfg.Fetch, logger),
		Search:  search.NewService(cfg.SearXNG, logger),
		Docs:    docs.NewService(cfg.Context7, logger),
		Flights: flights.NewService(flights.NewHTTPProvider(cfg.Flights, logger), logger),
	}
}

// GetToolsByName 返回指定工具集的 MCP 工具
func (s *Services) GetToolsByName(name string) ([]server.ServerTool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flights":
		return flights.GetTools(s.Flights), nil
	case "search":
		return search.GetTools(s.Search), nil
	case "fetch":
		return fetch.GetTools(s.Fetch), nil
	case "docs":
		return docs.GetTools(s.Docs), nil
	default:
		return nil, fmt.Errorf("tool %s not found", name)
	}
}

// Select 返回多个工具集的工具，names 为空时返回全部
func (s *Services) Select(names []string) ([]server.ServerTool, error) {
	if len(names) == 0 {
		names = Names
	}
	var all []server.ServerTool
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		t, err := s.GetToolsByName(key)
		if err != nil {
			return nil, err
		}
		all = append(all, t...)
	}
	return all, nil
}
