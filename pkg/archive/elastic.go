package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"

	"code.xxxxx.cn/platform/yarnlogs/pkg/logs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
)

/* indexed fields of a log line document */
const (
	fieldAppID       = "app_id"
	fieldNodeID      = "node_id"
	fieldContainerID = "container_id"
	fieldLogType     = "log_type"
	fieldTimestamp   = "@timestamp"
)

type logDocument struct {
	AppID       string `json:"app_id"`
	NodeID      string `json:"node_id"`
	ContainerID string `json:"container_id"`
	LogType     string `json:"log_type"`
	Message     string `json:"message"`
	Timestamp   string `json:"@timestamp"`
}

// ElasticReader reads aggregated logs shipped line by line to an elasticsearch index
type ElasticReader struct {
	client *elastic.Client
	index  string
	size   int
}

// NewElasticReader size bounds the number of lines read by one query
func NewElasticReader(esURL, index string, size int) (*ElasticReader, error) {
	cfg := []elastic.ClientOptionFunc{
		elastic.SetURL(esURL),
		elastic.SetSniff(false),
		elastic.SetHealthcheckTimeout(1 * time.Minute),
	}
	client, err := elastic.NewClient(cfg...)
	if err != nil {
		return nil, errors.Wrapf(err, "new elastic search client of %s", esURL)
	}
	return &ElasticReader{client: client, index: index, size: size}, nil
}

// Close .
func (e *ElasticReader) Close() error {
	e.client.Stop()
	return nil
}

func (e *ElasticReader) query(req logs.Request, withLogTypes bool) *elastic.BoolQuery {
	query := elastic.NewBoolQuery().Filter(elastic.NewTermQuery(fieldAppID, req.AppID))
	if req.NodeID != "" {
		query = query.Filter(elastic.NewTermQuery(fieldNodeID, req.NodeID))
	}
	if req.ContainerID != "" {
		query = query.Filter(elastic.NewTermQuery(fieldContainerID, req.ContainerID))
	}
	if withLogTypes && len(req.LogTypes) > 0 && !logs.ContainsMatchAll(req.LogTypes) {
		values := make([]interface{}, 0, len(req.LogTypes))
		for _, t := range req.LogTypes {
			values = append(values, t)
		}
		query = query.Filter(elastic.NewTermsQuery(fieldLogType, values...))
	}
	return query
}

func bucketKey(b *elastic.AggregationBucketKeyItem) string {
	if b.KeyAsString != nil {
		return *b.KeyAsString
	}
	return fmt.Sprint(b.Key)
}

// ListFiles .
func (e *ElasticReader) ListFiles(ctx context.Context, req logs.Request) ([]string, error) {
	res, err := e.client.Search().Index(e.index).
		Query(e.query(req, false)).
		Size(0).
		Aggregation("log_types", elastic.NewTermsAggregation().Field(fieldLogType).Size(e.size)).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "list log types of %s", req.AppID)
	}
	terms, ok := res.Aggregations.Terms("log_types")
	if !ok {
		return nil, nil
	}
	names := make([]string, 0, len(terms.Buckets))
	for _, b := range terms.Buckets {
		names = append(names, bucketKey(b))
	}
	return names, nil
}

type logGroup struct {
	logType  string
	content  bytes.Buffer
	uploaded string
}

type containerGroup struct {
	nodeID      string
	containerID string
	logs        []*logGroup
}

// group hits sorted by container, log type and time into containers and their log files
func group(hits []*elastic.SearchHit) ([]*containerGroup, error) {
	var groups []*containerGroup
	var cur *containerGroup
	var lg *logGroup
	for _, hit := range hits {
		var doc logDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, errors.Wrapf(err, "unmarshal log document %s", hit.Id)
		}
		if cur == nil || cur.containerID != doc.ContainerID || cur.nodeID != doc.NodeID {
			cur = &containerGroup{nodeID: doc.NodeID, containerID: doc.ContainerID}
			groups = append(groups, cur)
			lg = nil
		}
		if lg == nil || lg.logType != doc.LogType {
			lg = &logGroup{logType: doc.LogType}
			cur.logs = append(cur.logs, lg)
		}
		lg.content.WriteString(doc.Message)
		lg.content.WriteByte('\n')
		lg.uploaded = doc.Timestamp
	}
	return groups, nil
}

func (e *ElasticReader) dump(ctx context.Context, req logs.Request, out *logs.Section, reportMissing bool) int {
	res, err := e.client.Search().Index(e.index).
		Query(e.query(req, true)).
		Sort(fieldContainerID, true).
		Sort(fieldLogType, true).
		Sort(fieldTimestamp, true).
		Size(e.size).
		Do(ctx)
	if err != nil {
		out.Errf("Can not read the aggregated logs of the application: %s. %v", req.AppID, err)
		return logs.ResultFailure
	}
	groups, err := group(res.Hits.Hits)
	if err != nil {
		out.Errf("%v", err)
		return logs.ResultFailure
	}
	if len(groups) == 0 {
		if reportMissing {
			out.Errf("Can not find the aggregated logs for the container: %s within the application: %s",
				req.ContainerID, req.AppID)
		}
		return logs.ResultFailure
	}
	if res.Hits.TotalHits != nil && res.Hits.TotalHits.Value > int64(len(res.Hits.Hits)) {
		alog.Warningf("only %d of %d log lines of %s are read, raise archive.elasticSize",
			len(res.Hits.Hits), res.Hits.TotalHits.Value, req.AppID)
	}
	for _, g := range groups {
		e.writeContainer(req, g, out)
	}
	return logs.ResultSuccess
}

func (e *ElasticReader) writeContainer(req logs.Request, g *containerGroup, out *logs.Section) {
	w, err := out.ContainerWriter(g.nodeID, g.containerID)
	if err != nil {
		out.Errf("%v", err)
		return
	}
	defer w.Close()
	logs.WriteContainerHeader(w, g.containerID, g.nodeID)
	for _, lg := range g.logs {
		content := limitBytes(lg.content.Bytes(), req.Bytes)
		logs.WriteLogTypeHeader(w, lg.logType, lg.uploaded, int64(lg.content.Len()))
		n, err := w.Write(content)
		if err != nil {
			out.Errf("Can not write the log file:%s for the container:%s. %v", lg.logType, g.containerID, err)
		}
		_, _ = w.Write([]byte("\n"))
		logs.WriteLogTypeFooter(w, lg.logType)
		logs.ObserveFile(logs.SourceArchive, int64(n))
	}
}

// DumpContainerLogs .
func (e *ElasticReader) DumpContainerLogs(ctx context.Context, req logs.Request, out *logs.Section, reportMissing bool) int {
	return e.dump(ctx, req, out, reportMissing)
}

// DumpContainerLogsWithoutNodeID .
func (e *ElasticReader) DumpContainerLogsWithoutNodeID(ctx context.Context, req logs.Request, out *logs.Section) int {
	c := req.WithLogTypes(req.LogTypes)
	c.NodeID = ""
	return e.dump(ctx, c, out, true)
}

// DumpAllContainersLogs .
func (e *ElasticReader) DumpAllContainersLogs(ctx context.Context, req logs.Request, out *logs.Section) int {
	c := req.WithLogTypes(req.LogTypes)
	c.ContainerID = ""
	return e.dump(ctx, c, out, false)
}

// containerBuckets aggregate the documents of req by container, node and log type
func (e *ElasticReader) containerBuckets(ctx context.Context, req logs.Request) ([]*elastic.AggregationBucketKeyItem, error) {
	agg := elastic.NewTermsAggregation().Field(fieldContainerID).Size(e.size).
		SubAggregation("nodes", elastic.NewTermsAggregation().Field(fieldNodeID).Size(e.size).
			SubAggregation("log_types", elastic.NewTermsAggregation().Field(fieldLogType).Size(e.size)))
	res, err := e.client.Search().Index(e.index).
		Query(e.query(req, false)).
		Size(0).
		Aggregation("containers", agg).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregate containers of %s", req.AppID)
	}
	terms, ok := res.Aggregations.Terms("containers")
	if !ok {
		return nil, nil
	}
	return terms.Buckets, nil
}

// PrintContainerLogMetadata lengths are reported in log lines
func (e *ElasticReader) PrintContainerLogMetadata(ctx context.Context, req logs.Request, out *logs.Section) int {
	buckets, err := e.containerBuckets(ctx, req)
	if err != nil || len(buckets) == 0 {
		if err != nil {
			alog.V(2).Infof("%v", err)
		}
		out.Errf("Can not find any matched containers for the application: %s", req.AppID)
		return logs.ResultFailure
	}
	w := out.Writer()
	for _, c := range buckets {
		nodes, _ := c.Terms("nodes")
		if nodes == nil {
			continue
		}
		for _, n := range nodes.Buckets {
			logs.WriteLogFileInfoHeader(w, bucketKey(c), bucketKey(n))
			types, _ := n.Terms("log_types")
			if types == nil {
				continue
			}
			for _, t := range types.Buckets {
				logs.WriteLogFileInfo(w, bucketKey(t), strconv.FormatInt(t.DocCount, 10)+" lines")
			}
		}
	}
	return logs.ResultSuccess
}

// PrintNodesList .
func (e *ElasticReader) PrintNodesList(ctx context.Context, req logs.Request, out *logs.Section) int {
	res, err := e.client.Search().Index(e.index).
		Query(e.query(req, false)).
		Size(0).
		Aggregation("nodes", elastic.NewTermsAggregation().Field(fieldNodeID).Size(e.size)).
		Do(ctx)
	if err != nil {
		out.Errf("Can not list the nodes of the application: %s. %v", req.AppID, err)
		return logs.ResultFailure
	}
	if terms, ok := res.Aggregations.Terms("nodes"); ok {
		for _, b := range terms.Buckets {
			out.Outf("%s", bucketKey(b))
		}
	}
	return logs.ResultSuccess
}

// PrintContainersList .
func (e *ElasticReader) PrintContainersList(ctx context.Context, req logs.Request, out *logs.Section) int {
	buckets, err := e.containerBuckets(ctx, req)
	if err != nil || len(buckets) == 0 {
		if err != nil {
			alog.V(2).Infof("%v", err)
		}
		out.Errf("Can not find any containers for the application:%s.", req.AppID)
		return logs.ResultFailure
	}
	for _, c := range buckets {
		nodes, _ := c.Terms("nodes")
		if nodes == nil {
			continue
		}
		for _, n := range nodes.Buckets {
			out.Outf("%s", logs.ContainerOnNode(bucketKey(c), bucketKey(n)))
		}
	}
	return logs.ResultSuccess
}
