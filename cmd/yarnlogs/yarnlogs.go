package main

import (
	"os"

	"code.xxxxx.cn/platform/yarnlogs/cmd/yarnlogs/app"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/logs"
)

func main() {
	logs.InitLogs()

	result := 0
	if err := app.NewLogsCommand(os.Stdout, os.Stderr, &result).Execute(); err != nil {
		logs.FlushLogs()
		os.Exit(1)
	}
	// os.Exit skips deferred calls
	logs.FlushLogs()
	os.Exit(result)
}
