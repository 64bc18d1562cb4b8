package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// 以下变量在构建时通过 -ldflags "-X bhinneka/version.Version=..." 注入
var (
	Version   = "0.2.0"
	GitCommit = ""
	BuildTime = ""
)

// Info 版本信息
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get 返回当前程序的版本信息，未注入提交号时从构建信息中读取
func Get() Info {
	commit := GitCommit
	if commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
				}
			}
		}
	}
	return Info{
		Version:   Version,
		GitCommit: commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	s := "v" + i.Version
	if i.GitCommit != "" {
		s += " (" + i.GitCommit + ")"
	}
	return fmt.Sprintf("%s %s %s", s, i.GoVersion, i.Platform)
}
