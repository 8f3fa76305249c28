package job

import (
	"context"

	"github.com/Raidoxe/BERTNews/internal/service"
)

// RepairMetadataJob re-scrapes articles that were stored without a title or
// description, typically because the source page was unreachable at ingest
// time.
type RepairMetadataJob struct {
	ingest *service.IngestService
}

func NewRepairMetadataJob(ingest *service.IngestService) *RepairMetadataJob {
	return &RepairMetadataJob{ingest: ingest}
}

func (j *RepairMetadataJob) Name() string {
	return "repair_metadata"
}

func (j *RepairMetadataJob) Run(ctx context.Context) error {
	if j.ingest == nil {
		return nil
	}
	_, err := j.ingest.RepairEmptyArticles(ctx)
	return err
}
