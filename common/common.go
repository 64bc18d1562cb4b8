package common

import (
	"bhinneka/utils"
)

// GenerateExampleEnv 生成示例 .env 文件
func GenerateExampleEnv(filePath string) error {
	exampleContent := `# 这是一个示例的环境变量配置文件
# 请将此文件复制为 .env 并根据需要进行修改，环境变量优先于配置文件

# 服务配置
BHINNEKA_TRANSPORT = stdio
BHINNEKA_HOST = 127.0.0.1
BHINNEKA_PORT = 8000
# 启用的工具集，逗号分隔，为空时全部启用: flights,search,fetch,docs
BHINNEKA_TOOLS =

# 日志配置，日志文件按大小轮转
BHINNEKA_LOG_LEVEL = info
BHINNEKA_LOG_FILE =

# URL 抓取：Chrome 路径为空时自动查找，容器中运行需要关闭沙箱
BHINNEKA_CHROME_PATH =
BHINNEKA_CHROME_NO_SANDBOX = false
BHINNEKA_PROXY_URL =

# SearXNG 搜索
SEARXNG_BASE_URL = http://127.0.0.1:8888
SEARXNG_TIMEOUT = 8
SEARXNG_MAX_RESULTS = 10
SEARXNG_LANGUAGE = en

# Context7 文档查询
CONTEXT7_BASE_URL = https://context7.com/api
CONTEXT7_API_KEY =
CONTEXT7_TIMEOUT = 15
CONTEXT7_DEFAULT_TYPE = txt

# 航班搜索服务
FLIGHTS_BASE_URL =
FLIGHTS_API_KEY =
FLIGHTS_TIMEOUT = 30

# HTTP 模式认证
BHINNEKA_AUTH_REQUIRED = false
BHINNEKA_AUTH_SECRET =
BHINNEKA_USERINFO_URL =
BHINNEKA_ALLOWED_EMAILS =
BHINNEKA_ALLOWED_DOMAINS =
`

	return utils.WriteFile(filePath, []byte(exampleContent))
}
