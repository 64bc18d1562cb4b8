package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envBinding 环境变量对应的配置路径
type envBinding struct {
	Path string
	List bool
}

var (
	envBindings     map[string]envBinding
	envBindingsOnce sync.Once
)

// bindingsFromTags 根据 koanf 和 env 标签生成环境变量到配置路径的映射
func bindingsFromTags() map[string]envBinding {
	envBindingsOnce.Do(func() {
		envBindings = make(map[string]envBinding)
		collectEnvBindings(reflect.TypeOf(Config{}), "", envBindings)
	})
	return envBindings
}

func collectEnvBindings(t reflect.Type, prefix string, out map[string]envBinding) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := field.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if name := field.Tag.Get("env"); name != "" && name != "-" {
			out[name] = envBinding{Path: key, List: field.Type.Kind() == reflect.Slice}
		}
		if field.Type.Kind() == reflect.Struct {
			collectEnvBindings(field.Type, key, out)
		}
	}
}

// ApplyEnv 用 environ 返回的环境变量覆盖配置中带 env 标签的字段。
// 空值会被忽略，无法解析的取值返回错误。
func (c *Config) ApplyEnv(environ func() []string) error {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(c, "koanf"), nil); err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	bindings := bindingsFromTags()
	provider := env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			b, ok := bindings[key]
			if !ok {
				return "", nil
			}
			value = strings.TrimSpace(value)
			if b.List {
				items := splitList(value)
				if len(items) == 0 {
					return "", nil
				}
				return b.Path, items
			}
			if value == "" {
				return "", nil
			}
			return b.Path, value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("加载环境变量失败: %w", err)
	}

	var out Config
	err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &out,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return fmt.Errorf("环境变量取值无效: %w", err)
	}
	*c = out
	return nil
}

// splitList 按逗号或换行拆分列表
func splitList(value string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '\n' }) {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// lowerAll 转为小写并去掉指定前缀，去重后保持原有顺序
func lowerAll(items []string, trimPrefix string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if trimPrefix != "" {
			item = strings.TrimLeft(item, trimPrefix)
		}
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
