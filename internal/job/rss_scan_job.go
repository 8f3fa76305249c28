package job

import (
	"context"

	"github.com/Raidoxe/BERTNews/internal/service"
)

// RSSScanJob runs the feed scan on a schedule so the corpus keeps growing
// without manual ingest calls.
type RSSScanJob struct {
	ingest *service.IngestService
}

func NewRSSScanJob(ingest *service.IngestService) *RSSScanJob {
	return &RSSScanJob{ingest: ingest}
}

func (j *RSSScanJob) Name() string {
	return "rss_scan"
}

func (j *RSSScanJob) Run(ctx context.Context) error {
	if j.ingest == nil {
		return nil
	}
	_, err := j.ingest.ScanFeeds(ctx, nil)
	return err
}
