package archive

import (
	"os/user"

	"github.com/pkg/errors"

	"code.xxxxx.cn/platform/yarnlogs/pkg/config"
	"code.xxxxx.cn/platform/yarnlogs/pkg/logs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
)

// Store is an archive reader holding its connection until closed
type Store interface {
	logs.ArchiveReader
	Close() error
}

var (
	_ Store = &DirReader{}
	_ Store = &ElasticReader{}
)

// New open the archive described by cfg
func New(cfg config.ArchiveConfig) (Store, error) {
	loc, err := ParseLocation(cfg.Location)
	if err != nil {
		return nil, err
	}
	alog.V(2).Infof("aggregated logs are read from %s", loc)
	switch loc.Scheme {
	case StoreFile:
		return NewDirReader(LocalFS{}, loc.Path, cfg.Suffix), nil
	case StoreHDFS:
		u, err := hdfsUser(loc, cfg.HDFSUser)
		if err != nil {
			return nil, err
		}
		fsys, err := NewHDFS(loc.Domain, u)
		if err != nil {
			return nil, err
		}
		return NewDirReader(fsys, loc.Path, cfg.Suffix), nil
	case StoreElastic, StoreElasticHTTPS:
		return NewElasticReader(loc.ElasticURL(), loc.ElasticIndex(cfg.ElasticIndex), cfg.ElasticSize)
	}
	return nil, errors.Errorf("unsupported archive location %s", cfg.Location)
}

// hdfsUser the ?user= of the location wins over the configured user, then the current user
func hdfsUser(loc *Location, configured string) (string, error) {
	if u := loc.Params.Get("user"); u != "" {
		return u, nil
	}
	if configured != "" {
		return configured, nil
	}
	cur, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "get current user for hdfs")
	}
	return cur.Username, nil
}
