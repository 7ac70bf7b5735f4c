package flag

import (
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	"github.com/spf13/pflag"
)

// PrintFlags logs the flags in the flagset
func PrintFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		alog.V(1).Infof("FLAG: --%s=%q", flag.Name, flag.Value)
	})
}
