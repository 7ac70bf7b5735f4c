package archive

import (
	"context"
	"io"
	"os"
	"path"
	"sort"

	"github.com/pkg/errors"

	"code.xxxxx.cn/platform/yarnlogs/pkg/logs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/fs"
	timeutil "code.xxxxx.cn/platform/yarnlogs/pkg/util/time"
)

// DirReader reads aggregated logs laid out as
// <root>/<owner>/<suffix>/<appId>/<node>/<containerId>/<logType>,
// node directories replace the ':' of the node id by '_'
type DirReader struct {
	fs     FileSystem
	root   string
	suffix string
}

// NewDirReader .
func NewDirReader(fsys FileSystem, root, suffix string) *DirReader {
	return &DirReader{fs: fsys, root: root, suffix: suffix}
}

// Close release the file system connection if it holds one
func (d *DirReader) Close() error {
	if c, ok := d.fs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type containerDir struct {
	node        string
	containerID string
	dir         string
}

func (d *DirReader) appDir(req logs.Request) string {
	return path.Join(d.root, req.AppOwner, d.suffix, req.AppID)
}

func subDirs(infos []os.FileInfo) []string {
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names
}

// containers walk the node and container directories of the application, restricted to
// req.NodeID and req.ContainerID when they are set
func (d *DirReader) containers(req logs.Request) ([]containerDir, error) {
	appDir := d.appDir(req)
	infos, err := d.fs.ReadDir(appDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("no aggregated logs for %s at %s", req.AppID, appDir)
		}
		return nil, errors.Wrapf(err, "read %s", appDir)
	}
	nodes := subDirs(infos)
	if req.NodeID != "" {
		nodes = []string{fs.SafeName(req.NodeID)}
	}
	var dirs []containerDir
	for _, node := range nodes {
		nodeDir := path.Join(appDir, node)
		infos, err := d.fs.ReadDir(nodeDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "read %s", nodeDir)
		}
		for _, cid := range subDirs(infos) {
			if req.ContainerID != "" && cid != req.ContainerID {
				continue
			}
			dirs = append(dirs, containerDir{node: node, containerID: cid, dir: path.Join(nodeDir, cid)})
		}
	}
	return dirs, nil
}

func (d *DirReader) logFiles(dir string) ([]os.FileInfo, error) {
	infos, err := d.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}
	var files []os.FileInfo
	for _, info := range infos {
		if !info.IsDir() {
			files = append(files, info)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

// ListFiles .
func (d *DirReader) ListFiles(ctx context.Context, req logs.Request) ([]string, error) {
	dirs, err := d.containers(req)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, c := range dirs {
		files, err := d.logFiles(c.dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f.Name()] {
				seen[f.Name()] = true
				names = append(names, f.Name())
			}
		}
	}
	return names, nil
}

// DumpContainerLogs .
func (d *DirReader) DumpContainerLogs(ctx context.Context, req logs.Request, out *logs.Section, reportMissing bool) int {
	if req.NodeID == "" {
		return d.DumpContainerLogsWithoutNodeID(ctx, req, out)
	}
	return d.dump(ctx, req, out, reportMissing)
}

// DumpContainerLogsWithoutNodeID .
func (d *DirReader) DumpContainerLogsWithoutNodeID(ctx context.Context, req logs.Request, out *logs.Section) int {
	c := req.WithLogTypes(req.LogTypes)
	c.NodeID = ""
	return d.dump(ctx, c, out, true)
}

// DumpAllContainersLogs .
func (d *DirReader) DumpAllContainersLogs(ctx context.Context, req logs.Request, out *logs.Section) int {
	c := req.WithLogTypes(req.LogTypes)
	c.ContainerID = ""
	return d.dump(ctx, c, out, false)
}

func (d *DirReader) dump(ctx context.Context, req logs.Request, out *logs.Section, reportMissing bool) int {
	dirs, err := d.containers(req)
	if err != nil {
		alog.V(2).Infof("%v", err)
		dirs = nil
	}
	found := false
	for _, c := range dirs {
		if ctx.Err() != nil {
			break
		}
		if d.dumpContainer(req, c, out) {
			found = true
		}
	}
	if !found {
		if reportMissing {
			out.Errf("Can not find the aggregated logs for the container: %s within the application: %s",
				req.ContainerID, req.AppID)
		}
		return logs.ResultFailure
	}
	return logs.ResultSuccess
}

func (d *DirReader) dumpContainer(req logs.Request, c containerDir, out *logs.Section) bool {
	files, err := d.logFiles(c.dir)
	if err != nil {
		alog.Warningf("%v", err)
		return false
	}
	selected := selectFiles(files, req.LogTypes)
	if len(selected) == 0 {
		return false
	}
	w, err := out.ContainerWriter(c.node, c.containerID)
	if err != nil {
		out.Errf("%v", err)
		return false
	}
	defer w.Close()
	logs.WriteContainerHeader(w, c.containerID, c.node)
	for _, info := range selected {
		file := path.Join(c.dir, info.Name())
		r, err := d.fs.Open(file)
		if err != nil {
			out.Errf("Can not read the log file:%s for the container:%s. %v", info.Name(), c.containerID, err)
			continue
		}
		logs.WriteLogTypeHeader(w, info.Name(), timeutil.Format(info.ModTime()), info.Size())
		n, err := copyLimited(w, r, info.Size(), req.Bytes)
		_ = r.Close()
		if err != nil {
			out.Errf("Can not read the log file:%s for the container:%s. %v", info.Name(), c.containerID, err)
		}
		_, _ = w.Write([]byte("\n"))
		logs.WriteLogTypeFooter(w, info.Name())
		logs.ObserveFile(logs.SourceArchive, n)
	}
	return true
}

// selectFiles keep the files named in logTypes, treating them as patterns when no name is exact
func selectFiles(files []os.FileInfo, logTypes []string) []os.FileInfo {
	if len(logTypes) == 0 || logs.ContainsMatchAll(logTypes) {
		return files
	}
	names := make([]string, 0, len(files))
	byName := map[string]os.FileInfo{}
	for _, f := range files {
		names = append(names, f.Name())
		byName[f.Name()] = f
	}
	var selected []os.FileInfo
	for _, t := range logTypes {
		if f, ok := byName[t]; ok {
			selected = append(selected, f)
		}
	}
	if len(selected) > 0 {
		return selected
	}
	matched, err := logs.Match(logTypes, names)
	if err != nil {
		return nil
	}
	for _, name := range matched {
		selected = append(selected, byName[name])
	}
	return selected
}

// PrintContainerLogMetadata .
func (d *DirReader) PrintContainerLogMetadata(ctx context.Context, req logs.Request, out *logs.Section) int {
	dirs, err := d.containers(req)
	if err != nil || len(dirs) == 0 {
		if err != nil {
			alog.V(2).Infof("%v", err)
		}
		out.Errf("Can not find any matched containers for the application: %s", req.AppID)
		return logs.ResultFailure
	}
	w := out.Writer()
	for _, c := range dirs {
		files, err := d.logFiles(c.dir)
		if err != nil {
			out.Errf("%v", err)
			continue
		}
		logs.WriteLogFileInfoHeader(w, c.containerID, c.node)
		for _, f := range files {
			logs.WriteLogFileInfo(w, f.Name(), logs.LogLength(f.Size()))
		}
	}
	return logs.ResultSuccess
}

// PrintNodesList .
func (d *DirReader) PrintNodesList(ctx context.Context, req logs.Request, out *logs.Section) int {
	appDir := d.appDir(req)
	infos, err := d.fs.ReadDir(appDir)
	if err != nil {
		out.Errf("Can not find the log directory of the application: %s. %v", req.AppID, err)
		return logs.ResultFailure
	}
	for _, node := range subDirs(infos) {
		out.Outf("%s", node)
	}
	return logs.ResultSuccess
}

// PrintContainersList .
func (d *DirReader) PrintContainersList(ctx context.Context, req logs.Request, out *logs.Section) int {
	dirs, err := d.containers(req)
	if err != nil || len(dirs) == 0 {
		if err != nil {
			alog.V(2).Infof("%v", err)
		}
		out.Errf("Can not find any containers for the application:%s.", req.AppID)
		return logs.ResultFailure
	}
	for _, c := range dirs {
		out.Outf("%s", logs.ContainerOnNode(c.containerID, c.node))
	}
	return logs.ResultSuccess
}
