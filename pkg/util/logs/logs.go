// Package logs initialises and flushes the process wide klog output.
package logs

import (
	"flag"
	"log"
	"time"

	"k8s.io/klog/v2"
)

const logFlushFreq = 5 * time.Second

// klogWriter serves as a bridge between the standard log package and klog.
type klogWriter struct{}

// Write implements io.Writer.
func (writer klogWriter) Write(data []byte) (n int, err error) {
	klog.InfoDepth(1, string(data))
	return len(data), nil
}

func init() {
	klog.InitFlags(flag.CommandLine)
}

// InitLogs routes the standard logger into klog and starts the periodic flush.
func InitLogs() {
	log.SetOutput(klogWriter{})
	log.SetFlags(0)
	go func() {
		for range time.Tick(logFlushFreq) {
			klog.Flush()
		}
	}()
}

// FlushLogs flushes logs immediately.
func FlushLogs() {
	klog.Flush()
}
