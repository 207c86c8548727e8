package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
	"github.com/yuvalsigall-cpu/menu-cleaner/models"
)

// DynamoRunAdapter stores run summaries in a table keyed by `run_id`.
type DynamoRunAdapter struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoRunAdapter(client *dynamodb.Client, table string) *DynamoRunAdapter {
	return &DynamoRunAdapter{client: client, table: table}
}

type ddbRun struct {
	RunID     string         `dynamodbav:"run_id"`
	JobID     *string        `dynamodbav:"job_id,omitempty"`
	Filename  string         `dynamodbav:"filename"`
	Summary   dedupe.Summary `dynamodbav:"summary"`
	CreatedAt string         `dynamodbav:"created_at"`
}

func toDDBRun(run *models.Run) ddbRun {
	dr := ddbRun{
		RunID:     run.ID,
		Filename:  run.Filename,
		Summary:   run.Summary,
		CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if run.JobID != "" {
		dr.JobID = &run.JobID
	}
	return dr
}

func fromDDBRun(dr ddbRun) models.Run {
	run := models.Run{
		ID:       dr.RunID,
		Filename: dr.Filename,
		Summary:  dr.Summary,
	}
	if dr.JobID != nil {
		run.JobID = *dr.JobID
	}
	if t, err := time.Parse(time.RFC3339Nano, dr.CreatedAt); err == nil {
		run.CreatedAt = t
	}
	return run
}

func (d *DynamoRunAdapter) Create(ctx context.Context, run *models.Run) error {
	item, err := attributevalue.MarshalMap(toDDBRun(run))
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// Recent scans the table and returns up to limit runs, newest first.
func (d *DynamoRunAdapter) Recent(ctx context.Context, limit int) ([]models.Run, error) {
	var runs []models.Run
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{TableName: &d.table})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var items []ddbRun
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		for _, it := range items {
			runs = append(runs, fromDDBRun(it))
		}
	}
	return newestFirst(runs, limit), nil
}

func newestFirst(runs []models.Run, limit int) []models.Run {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}
