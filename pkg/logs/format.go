package logs

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

/* output framing */
const (
	containerOnNodePattern = "Container: %s on %s"
	perLogFileInfoPattern  = "%30s\t%30s\n"
	applicationStateLine   = "Application State: %s"
)

// ContainerOnNode "Container: <container> on <node>"
func ContainerOnNode(containerID, nodeID string) string {
	return fmt.Sprintf(containerOnNodePattern, containerID, nodeID)
}

// WriteContainerHeader write the container line and its underline
func WriteContainerHeader(w io.Writer, containerID, nodeID string) {
	header := ContainerOnNode(containerID, nodeID)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("=", len(header)))
}

// WriteLogTypeHeader write the lines preceding the contents of one log file, length < 0 is omitted
func WriteLogTypeHeader(w io.Writer, logType, uploadTime string, length int64) {
	fmt.Fprintln(w, "LogType:"+logType)
	fmt.Fprintln(w, "Log Upload Time:"+uploadTime)
	if length >= 0 {
		fmt.Fprintf(w, "LogLength:%d\n", length)
	}
	fmt.Fprintln(w, "Log Contents:")
}

// WriteLogTypeFooter end an archived log file
func WriteLogTypeFooter(w io.Writer, logType string) {
	fmt.Fprintln(w, "End of LogType:"+logType)
	fmt.Fprintln(w, strings.Repeat("*", 40))
	fmt.Fprintln(w)
}

// WriteRunningLogTypeFooter end a log file read from a running container
func WriteRunningLogTypeFooter(w io.Writer, logType, containerID string) {
	fmt.Fprintf(w, "End of LogType:%s. This log file belongs to a running container (%s) and so may not be complete.\n",
		logType, containerID)
}

// WriteLogFileInfoHeader write the column titles of a log file listing
func WriteLogFileInfoHeader(w io.Writer, containerID, nodeID string) {
	header := ContainerOnNode(containerID, nodeID)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("=", len(header)))
	fmt.Fprintf(w, perLogFileInfoPattern, "LogFile", "LogLength")
	fmt.Fprintln(w, strings.Repeat("=", len(header)))
}

// WriteLogFileInfo write one row of a log file listing
func WriteLogFileInfo(w io.Writer, fileName, length string) {
	fmt.Fprintf(w, perLogFileInfoPattern, fileName, length)
}

// LogLength render a byte count for the LogLength column, eg. "2048 (2.0 KiB)"
func LogLength(size int64) string {
	if size < 0 {
		return strconv.FormatInt(size, 10)
	}
	return fmt.Sprintf("%d (%s)", size, humanize.IBytes(uint64(size)))
}

// LogLengthText is LogLength for a size reported as text, kept verbatim when it is not a number
func LogLengthText(size string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return size
	}
	return LogLength(n)
}
